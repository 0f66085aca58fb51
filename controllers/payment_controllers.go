package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type PaymentController struct {
	Payments       *services.PaymentService
	RestaurantName string
}

func NewPaymentController(payments *services.PaymentService, restaurantName string) *PaymentController {
	return &PaymentController{Payments: payments, RestaurantName: restaurantName}
}

// Pay -> kasir menerima pembayaran untuk satu atau beberapa pesanan
func (pc *PaymentController) Pay(c *gin.Context) {
	var req struct {
		OrderIDs   []uint          `json:"order_ids" binding:"required,min=1"`
		StaffID    uint            `json:"staff_id"`
		AmountPaid decimal.Decimal `json:"amount_paid"`
		Method     string          `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	req.StaffID = actingStaffID(c, req.StaffID)

	payments, err := pc.Payments.Pay(c.Request.Context(), services.PayInput{
		OrderIDs:   req.OrderIDs,
		StaffID:    req.StaffID,
		AmountPaid: req.AmountPaid,
		Method:     method,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", payments)
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", gin.H{
		"payment": payment,
		"total":   payment.Order.Total(),
		"change":  services.Change(*payment, *payment.Order),
	})
}

// GetPayments -> pembayaran pada ?date=YYYY-MM-DD (default hari ini)
func (pc *PaymentController) GetPayments(c *gin.Context) {
	day, err := queryDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	payments, err := pc.Payments.ListPaymentsByDate(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// ReceiptPDF -> cetak nota
func (pc *PaymentController) ReceiptPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdf, err := services.RenderReceiptPDF(pc.RestaurantName, *payment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.WithField("receipt_number", payment.ReceiptNumber).Info("Receipt printed")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=nota-%s.pdf", payment.ReceiptNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (pc *PaymentController) MarkFailed(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.Payments.MarkFailed(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment marked as failed", nil)
}
