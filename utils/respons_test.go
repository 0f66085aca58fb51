package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		code          int
		wantRequestID string
		wantCtxErrors int
	}{
		{"client error", http.StatusConflict, "", 0},
		{"server error", http.StatusInternalServerError, "req-42", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set(RequestIDKey, "req-42")

			RespondError(c, tt.code, errors.New("boom"))

			assert.Equal(t, tt.code, w.Code)
			var resp JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Status)
			assert.Equal(t, "boom", resp.Message)
			assert.Equal(t, tt.wantRequestID, resp.RequestID)
			assert.Len(t, c.Errors, tt.wantCtxErrors)
		})
	}
}

func TestRespondJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondJSON(c, http.StatusCreated, "ok", gin.H{"id": 1})

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, "ok", resp.Message)
	assert.Empty(t, resp.RequestID)
}
