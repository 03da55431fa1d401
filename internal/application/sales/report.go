package sales

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/domain"
)

// Agrupaciones válidas del reporte de ventas.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// Report agrega ventas COMPLETED entre [from, to] por día, semana o mes.
// La semana se identifica por la fecha de su domingo. Solo las ventas
// completadas cuentan como ingreso: PENDING y CANCELLED quedan fuera.
func (uc *SalesUseCase) Report(ctx context.Context, from, to time.Time, groupBy string) (*dto.SalesReportResponse, error) {
	switch groupBy {
	case GroupByDay, GroupByWeek, GroupByMonth:
	case "":
		groupBy = GroupByDay
	default:
		return nil, domain.ErrInvalidInput
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	completed, err := uc.saleRepo.ListCompletedBetween(from, to)
	if err != nil {
		return nil, err
	}

	periods := make(map[string]*dto.SalesReportPeriod)
	summary := dto.SalesReportSummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, sale := range completed {
		key := periodKey(sale.SaleDate, groupBy)
		p, ok := periods[key]
		if !ok {
			p = &dto.SalesReportPeriod{Period: key, Revenue: decimal.Zero}
			periods[key] = p
		}
		itemCount := 0
		for _, it := range sale.Items {
			itemCount += it.Quantity
		}
		p.Sales++
		p.Revenue = p.Revenue.Add(sale.TotalAmount)
		p.Items += itemCount

		summary.TotalSales++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.TotalAmount)
		summary.TotalItems += itemCount
	}
	if summary.TotalSales > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalSales))).Round(2)
	}

	data := make([]dto.SalesReportPeriod, 0, len(periods))
	for _, p := range periods {
		data = append(data, *p)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Period < data[j].Period })

	return &dto.SalesReportResponse{Summary: summary, Data: data}, nil
}

func periodKey(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByWeek:
		// domingo de la semana
		sunday := t.AddDate(0, 0, -int(t.Weekday()))
		return sunday.Format("2006-01-02")
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
