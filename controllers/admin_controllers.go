package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

// AdminController serves the owner's back-office views: sales recap and
// the activity log.
type AdminController struct {
	Reports  *services.ReportService
	Activity *services.ActivityLogger
}

func NewAdminController(reports *services.ReportService, activity *services.ActivityLogger) *AdminController {
	return &AdminController{Reports: reports, Activity: activity}
}

// SalesReport -> rekap penjualan ?date=YYYY-MM-DD
func (ac *AdminController) SalesReport(c *gin.Context) {
	day, err := queryDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	report, err := ac.Reports.SalesReport(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales report", gin.H{
		"report":            report,
		"revenue_formatted": utils.FormatRupiah(report.Revenue),
	})
}

// SalesChart renders the same report as a PNG bar chart.
func (ac *AdminController) SalesChart(c *gin.Context) {
	day, err := queryDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	report, err := ac.Reports.SalesReport(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	png, err := services.RenderSalesChart(report)
	if errors.Is(err, services.ErrNotFound) {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("no sales on %s", report.Date))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (ac *AdminController) ActivityLog(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	logs, err := ac.Activity.List(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Activity log", logs)
}
