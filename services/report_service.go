package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/resto-pos/models"
)

type SalesLine struct {
	MenuID   uint            `json:"menu_id"`
	MenuName string          `json:"menu_name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesReport is the rekap penjualan for one day. Revenue is the sum of
// order totals, not of amounts tendered.
type SalesReport struct {
	Date     string          `json:"date"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	Received decimal.Decimal `json:"received"`
	Lines    []SalesLine     `json:"lines"`
}

type ReportService struct {
	uow *UnitOfWork
}

func NewReportService(uow *UnitOfWork) *ReportService {
	return &ReportService{uow: uow}
}

// SalesReport aggregates successful payments made on day.
func (s *ReportService) SalesReport(ctx context.Context, day time.Time) (*SalesReport, error) {
	start, end := dayBounds(day)

	var payments []models.Payment
	err := s.uow.DB(ctx).
		Preload("Order.Details.Menu").
		Where("paid_at >= ? AND paid_at < ? AND success = ?", start, end, models.Flag(true)).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	report := &SalesReport{Date: start.Format(time.DateOnly), Revenue: decimal.Zero, Received: decimal.Zero}
	lines := make(map[uint]*SalesLine)
	for _, p := range payments {
		if p.Order == nil {
			continue
		}
		report.Orders++
		report.Received = report.Received.Add(p.AmountPaid)
		for _, d := range p.Order.Details {
			line, ok := lines[d.MenuID]
			if !ok {
				line = &SalesLine{MenuID: d.MenuID, MenuName: fmt.Sprintf("Menu #%d", d.MenuID), Revenue: decimal.Zero}
				if d.Menu != nil {
					line.MenuName = d.Menu.Name
				}
				lines[d.MenuID] = line
			}
			line.Quantity += d.Quantity
			line.Revenue = line.Revenue.Add(d.Subtotal())
			report.Revenue = report.Revenue.Add(d.Subtotal())
		}
	}

	for _, l := range lines {
		report.Lines = append(report.Lines, *l)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		if !report.Lines[i].Revenue.Equal(report.Lines[j].Revenue) {
			return report.Lines[i].Revenue.GreaterThan(report.Lines[j].Revenue)
		}
		return report.Lines[i].MenuName < report.Lines[j].MenuName
	})
	return report, nil
}

// RenderSalesChart draws revenue per menu as a PNG bar chart.
func RenderSalesChart(report *SalesReport) ([]byte, error) {
	if report == nil || len(report.Lines) == 0 {
		return nil, fmt.Errorf("%w: no sales to chart", ErrNotFound)
	}

	bars := make([]chart.Value, 0, len(report.Lines))
	top := 0.0
	for _, l := range report.Lines {
		v := l.Revenue.InexactFloat64()
		if v > top {
			top = v
		}
		bars = append(bars, chart.Value{Value: v, Label: l.MenuName})
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:    "Penjualan " + report.Date,
		Height:   480,
		Width:    max(640, 120*len(bars)),
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render sales chart: %w", err)
	}
	return buf.Bytes(), nil
}

