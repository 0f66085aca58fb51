package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

const receiptWidth = 80.0 // mm, thermal roll

// RenderReceiptPDF prints the nota for a payment. The payment must be loaded
// with Order.Details.Menu; Order.Table and Order.Staff are used when present.
func RenderReceiptPDF(restaurant string, payment models.Payment) ([]byte, error) {
	if payment.Order == nil {
		return nil, invalidArg("payment %d has no order loaded", payment.ID)
	}
	order := *payment.Order

	height := 120.0 + float64(len(order.Details))*10
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w := receiptWidth - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 6, restaurant, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 4, "No. "+payment.ReceiptNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(w, 4, payment.PaidAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	info := fmt.Sprintf("Order #%d", order.ID)
	if order.Table != nil {
		info += " - Meja " + order.Table.Number
	}
	pdf.CellFormat(w, 4, info, "", 1, "L", false, 0, "")
	if order.Staff != nil {
		pdf.CellFormat(w, 4, "Kasir: "+order.Staff.DisplayName, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(w, 2, "", "B", 1, "", false, 0, "")
	pdf.Ln(1)

	for _, d := range order.Details {
		name := fmt.Sprintf("Menu #%d", d.MenuID)
		if d.Menu != nil {
			name = d.Menu.Name
		}
		pdf.CellFormat(w, 4, name, "", 1, "L", false, 0, "")
		pdf.CellFormat(w*0.5, 4, fmt.Sprintf("  %d x %s", d.Quantity, utils.FormatRupiah(d.UnitPrice)), "", 0, "L", false, 0, "")
		pdf.CellFormat(w*0.5, 4, utils.FormatRupiah(d.Subtotal()), "", 1, "R", false, 0, "")
		if d.Note != "" {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.CellFormat(w, 3.5, "  "+d.Note, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
		}
	}
	pdf.CellFormat(w, 2, "", "B", 1, "", false, 0, "")
	pdf.Ln(1)

	total := order.Total()
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(w*0.5, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(w*0.5, 5, value, "", 1, "R", false, 0, "")
	}
	row("Total", utils.FormatRupiah(total), true)
	row("Bayar ("+string(payment.Method)+")", utils.FormatRupiah(payment.AmountPaid), false)
	row("Kembali", utils.FormatRupiah(Change(payment, order)), false)
	if !payment.Success {
		row("Status", "GAGAL", true)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 4, "Terima kasih", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", payment.ReceiptNumber, err)
	}
	return buf.Bytes(), nil
}
