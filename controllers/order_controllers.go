package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderItemRequest struct {
	MenuID   uint   `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Note     string `json:"note"`
}

// CreateOrder -> pelayan mencatat pesanan untuk satu meja
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		TableID uint               `json:"table_id" binding:"required"`
		StaffID uint               `json:"staff_id"`
		Items   []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in := services.CreateOrderInput{TableID: req.TableID, StaffID: actingStaffID(c, req.StaffID)}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderItem{MenuID: it.MenuID, Quantity: it.Quantity, Note: it.Note})
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order": order,
		"total": order.Total(),
	})
}

// GetAllOrders -> filter ?table_id= ?table_number= ?status= ?paid= ?staff_id= ?date=YYYY-MM-DD
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var f services.OrderFilter
	var err error

	if f.TableID, err = queryUint(c, "table_id"); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if f.StaffID, err = queryUint(c, "staff_id"); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if f.Paid, err = queryBool(c, "paid"); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	f.TableNumber = c.Query("table_number")
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseOrderStatus(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		f.Status = &st
	}
	if c.Query("date") != "" {
		d, err := queryDate(c)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		f.Date = &d
	}

	orders, err := oc.Orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order": order,
		"total": order.Total(),
	})
}

func (oc *OrderController) AddDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	detail, err := oc.Orders.AddDetail(c.Request.Context(), id, services.OrderItem{
		MenuID: req.MenuID, Quantity: req.Quantity, Note: req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order detail added", detail)
}

func (oc *OrderController) RemoveDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	removed, err := oc.Orders.RemoveDetail(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !removed {
		utils.RespondError(c, http.StatusNotFound, services.ErrDetailNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail removed", nil)
}

// CancelOrder -> hanya pesanan Waiting yang bisa dibatalkan
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cancelled, err := oc.Orders.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !cancelled {
		utils.RespondJSON(c, http.StatusConflict, "Order cannot be cancelled", gin.H{"cancelled": false})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{"cancelled": true})
}

// kitchenStatuses are the order states only the kitchen may set.
var kitchenStatuses = map[models.OrderStatus][]models.Role{
	models.OrderBeingPrepared: {models.RoleCook, models.RoleOwner},
	models.OrderDone:          {models.RoleCook, models.RoleOwner},
}

// UpdateOrderStatus -> BeingPrepared & Done hanya dari dapur (Cook/Owner)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := models.ParseOrderStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if roles, ok := kitchenStatuses[status]; ok && !hasRole(c, roles...) {
		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("only the kitchen can set %s", status))
		return
	}

	order, err := oc.Orders.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
