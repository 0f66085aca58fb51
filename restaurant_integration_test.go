package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/database"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	r      *gin.Engine
	events *realtime.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDevData(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	rec := &realtime.Recorder{}
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	r := router.SetupRouter(router.Deps{
		Services:       services.New(db, realtime.Fanout{hub, rec}),
		Tokens:         utils.NewTokenIssuer("integration-secret", time.Hour),
		Hub:            hub,
		RestaurantName: "Warung Test",
	})
	return &testServer{t: t, r: r, events: rec}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": "rahasia"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &data)
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

// TestEndToEndIntegration menguji flow utama:
// login -> pesan -> dapur -> antar -> bayar -> struk
func TestEndToEndIntegration(t *testing.T) {
	s := newTestServer(t)

	waiter := s.login("pelayan")
	cook := s.login("koki")
	cashier := s.login("kasir")
	owner := s.login("owner")

	// 1. Pelayan mencatat pesanan meja 1: 2x Nasi Goreng + 1x Es Teh Manis
	w := s.do(http.MethodPost, "/api/orders", waiter, map[string]any{
		"table_id": 1,
		"items": []map[string]any{
			{"menu_id": 1, "quantity": 2, "note": "pedas"},
			{"menu_id": 3, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Order models.Order `json:"order"`
		Total string       `json:"total"`
	}
	decode(t, w, &created)
	orderID := created.Order.ID
	assert.Equal(t, "56000", created.Total)
	assert.Equal(t, models.OrderWaiting, created.Order.Status)

	var menu models.Menu
	decode(t, s.do(http.MethodGet, "/api/menus/1", waiter, nil), &menu)
	assert.Equal(t, 28, menu.Stock)

	var table models.Table
	decode(t, s.do(http.MethodGet, "/api/tables/1", waiter, nil), &table)
	assert.Equal(t, models.TableOccupied, table.Status)

	// 2. Koki tidak boleh menerima pembayaran
	w = s.do(http.MethodPost, "/api/payments", cook, map[string]any{
		"order_ids": []uint{orderID}, "amount_paid": 60000, "method": "Cash",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 3. Belum diantar: belum bisa dibayar
	w = s.do(http.MethodPost, "/api/payments", cashier, map[string]any{
		"order_ids": []uint{orderID}, "amount_paid": 60000, "method": "Cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 4. Dapur -> antar
	for _, step := range []struct {
		token  string
		status models.OrderStatus
	}{
		{cook, models.OrderBeingPrepared},
		{cook, models.OrderDone},
		{waiter, models.OrderDelivered},
	} {
		w = s.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", orderID), step.token, map[string]string{"status": string(step.status)})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// 5. Uang kurang ditolak, pesanan tetap Delivered
	w = s.do(http.MethodPost, "/api/payments", cashier, map[string]any{
		"order_ids": []uint{orderID}, "amount_paid": 50000, "method": "Cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var order struct {
		Order models.Order `json:"order"`
	}
	decode(t, s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), waiter, nil), &order)
	assert.Equal(t, models.OrderDelivered, order.Order.Status)

	// 6. Bayar; staff_id kasir lain diabaikan, tercatat atas nama kasir yang login
	var me models.Staff
	decode(t, s.do(http.MethodGet, "/api/me", cashier, nil), &me)
	w = s.do(http.MethodPost, "/api/payments", cashier, map[string]any{
		"order_ids": []uint{orderID}, "amount_paid": 60000, "method": "Cash", "staff_id": created.Order.StaffID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payments []models.Payment
	decode(t, w, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, me.ID, payments[0].StaffID)
	assert.NotEqual(t, created.Order.StaffID, payments[0].StaffID)
	assert.Equal(t, time.Now().Format("20060102")+"-0001", payments[0].ReceiptNumber)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	// 7. Bayar dua kali ditolak
	w = s.do(http.MethodPost, "/api/payments", cashier, map[string]any{
		"order_ids": []uint{orderID}, "amount_paid": 60000, "method": "Cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 8. Detail pembayaran dengan kembalian
	var detail struct {
		Total  string `json:"total"`
		Change string `json:"change"`
	}
	decode(t, s.do(http.MethodGet, fmt.Sprintf("/api/payments/%d", payments[0].ID), cashier, nil), &detail)
	assert.Equal(t, "56000", detail.Total)
	assert.Equal(t, "4000", detail.Change)

	// 9. Struk PDF
	w = s.do(http.MethodGet, fmt.Sprintf("/api/payments/%d/receipt.pdf", payments[0].ID), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// 10. Meja kosong lagi
	decode(t, s.do(http.MethodGet, "/api/tables/1", waiter, nil), &table)
	assert.Equal(t, models.TableEmpty, table.Status)

	// 11. Pemilik melihat laporan dan log aktivitas
	w = s.do(http.MethodGet, "/api/reports/sales", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/activity?limit=10", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.ActivityLog
	decode(t, w, &logs)
	assert.NotEmpty(t, logs)

	w = s.do(http.MethodGet, "/api/activity", cashier, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.NotEmpty(t, s.events.Events())
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/login", "", map[string]string{"username": "kasir", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login("kasir")
	w = s.do(http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	s := newTestServer(t)
	waiter := s.login("pelayan")

	w := s.do(http.MethodPost, "/api/orders", waiter, map[string]any{
		"table_id": 2,
		"items":    []map[string]any{{"menu_id": 5, "quantity": 20}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &created)

	// stok Pisang Goreng habis
	w = s.do(http.MethodPost, "/api/orders", waiter, map[string]any{
		"table_id": 3,
		"items":    []map[string]any{{"menu_id": 5, "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", created.Order.ID), waiter, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var menu models.Menu
	decode(t, s.do(http.MethodGet, "/api/menus/5", waiter, nil), &menu)
	assert.Equal(t, 20, menu.Stock)

	var table models.Table
	decode(t, s.do(http.MethodGet, "/api/tables/2", waiter, nil), &table)
	assert.Equal(t, models.TableEmpty, table.Status)

	// kedua kali tidak bisa
	w = s.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", created.Order.ID), waiter, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderStatusRoleGate(t *testing.T) {
	s := newTestServer(t)
	tokens := map[models.Role]string{
		models.RoleWaiter:  s.login("pelayan"),
		models.RoleCashier: s.login("kasir"),
		models.RoleCook:    s.login("koki"),
		models.RoleOwner:   s.login("owner"),
	}

	// status sebelum target
	before := map[models.OrderStatus][]models.OrderStatus{
		models.OrderBeingPrepared: nil,
		models.OrderDone:          {models.OrderBeingPrepared},
		models.OrderDelivered:     {models.OrderBeingPrepared, models.OrderDone},
	}

	tests := []struct {
		role   models.Role
		target models.OrderStatus
		want   int
	}{
		{models.RoleWaiter, models.OrderBeingPrepared, http.StatusForbidden},
		{models.RoleCashier, models.OrderBeingPrepared, http.StatusForbidden},
		{models.RoleCook, models.OrderBeingPrepared, http.StatusOK},
		{models.RoleOwner, models.OrderBeingPrepared, http.StatusOK},
		{models.RoleWaiter, models.OrderDone, http.StatusForbidden},
		{models.RoleCashier, models.OrderDone, http.StatusForbidden},
		{models.RoleCook, models.OrderDone, http.StatusOK},
		{models.RoleOwner, models.OrderDone, http.StatusOK},
		{models.RoleWaiter, models.OrderDelivered, http.StatusOK},
		{models.RoleCashier, models.OrderDelivered, http.StatusOK},
		{models.RoleCook, models.OrderDelivered, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" to "+string(tt.target), func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/orders", tokens[models.RoleWaiter], map[string]any{
				"table_id": 4,
				"items":    []map[string]any{{"menu_id": 2, "quantity": 1}},
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			var created struct {
				Order models.Order `json:"order"`
			}
			decode(t, w, &created)
			path := fmt.Sprintf("/api/orders/%d/status", created.Order.ID)

			for _, st := range before[tt.target] {
				w = s.do(http.MethodPatch, path, tokens[models.RoleCook], map[string]string{"status": string(st)})
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			}
			var prev struct {
				Order models.Order `json:"order"`
			}
			decode(t, s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.Order.ID), tokens[models.RoleWaiter], nil), &prev)

			w = s.do(http.MethodPatch, path, tokens[tt.role], map[string]string{"status": string(tt.target)})
			assert.Equal(t, tt.want, w.Code, w.Body.String())

			var after struct {
				Order models.Order `json:"order"`
			}
			decode(t, s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.Order.ID), tokens[models.RoleWaiter], nil), &after)
			if tt.want == http.StatusOK {
				assert.Equal(t, tt.target, after.Order.Status)
			} else {
				assert.Equal(t, prev.Order.Status, after.Order.Status)
			}
		})
	}
}
