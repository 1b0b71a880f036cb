package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/clock"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	report "github.com/smallbiznis/labelworks/internal/report/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) report.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		clock: p.Clock,
	}
}

func (s *Service) Generate(ctx context.Context, req report.Request) (report.Report, error) {
	reportType := strings.ToLower(strings.TrimSpace(req.ReportType))
	if reportType == "" {
		reportType = report.TypeOverview
	}
	if !report.Types.Has(reportType) {
		return report.Report{}, schema.Invalid("reportType", schema.CodeEnumMismatch, "must be one of: "+strings.Join(report.Types.Values(), ", "))
	}
	if req.DateFrom != nil && req.DateTo != nil && !req.DateTo.After(*req.DateFrom) {
		return report.Report{}, report.ErrInvalidRange
	}

	now := s.clock.Now()
	out := report.Report{ReportType: reportType, GeneratedAt: now}

	if reportType == report.TypeOverview || reportType == report.TypeOrders {
		stats, err := s.orderStats(ctx, req.DateFrom, req.DateTo)
		if err != nil {
			return report.Report{}, err
		}
		trend, err := s.monthlyTrend(ctx, now)
		if err != nil {
			return report.Report{}, err
		}
		stats.MonthlyTrend = trend
		out.OrderStats = &stats
	}
	if reportType == report.TypeOverview || reportType == report.TypeCustomers {
		stats, err := s.customerStats(ctx, req.DateFrom, req.DateTo)
		if err != nil {
			return report.Report{}, err
		}
		out.CustomerStats = &stats
	}
	if reportType == report.TypeOverview || reportType == report.TypeMaterials {
		usage, err := s.materialUsage(ctx)
		if err != nil {
			return report.Report{}, err
		}
		out.MaterialUsage = usage
	}
	return out, nil
}

func (s *Service) orderStats(ctx context.Context, from, to *time.Time) (report.OrderStats, error) {
	where, args := createdBetween("created_at", from, to)
	var rows []struct {
		Status string          `gorm:"column:status"`
		Count  int64           `gorm:"column:order_count"`
		Amount decimal.Decimal `gorm:"column:amount"`
	}
	query := fmt.Sprintf(`
		SELECT status, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS amount
		FROM orders
		WHERE %s
		GROUP BY status`, where)
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return report.OrderStats{}, err
	}

	stats := report.OrderStats{TotalRevenue: decimal.Zero}
	for _, row := range rows {
		switch row.Status {
		case orderdomain.StatusNew:
			stats.NewOrders = row.Count
		case orderdomain.StatusPending:
			stats.Pending = row.Count
		case orderdomain.StatusInProgress:
			stats.InProgress = row.Count
		case orderdomain.StatusCompleted:
			stats.Completed = row.Count
			stats.TotalRevenue = row.Amount
		case orderdomain.StatusCancelled:
			stats.Cancelled = row.Count
		}
	}
	return stats, nil
}

// monthlyTrend buckets the trailing months in Go; month extraction differs
// between dialects. Every order counts, revenue only when completed.
func (s *Service) monthlyTrend(ctx context.Context, now time.Time) ([]report.MonthlyPoint, error) {
	start := truncateToMonth(now).AddDate(0, -(report.TrendMonths - 1), 0)

	var rows []struct {
		CreatedAt   time.Time       `gorm:"column:created_at"`
		Status      string          `gorm:"column:status"`
		TotalAmount decimal.Decimal `gorm:"column:total_amount"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT created_at, status, total_amount FROM orders WHERE created_at >= ?`,
		start,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]report.MonthlyPoint, report.TrendMonths)
	index := make(map[string]int, report.TrendMonths)
	for i := range points {
		period := periodKey(start.AddDate(0, i, 0))
		points[i] = report.MonthlyPoint{Period: period, Revenue: decimal.Zero}
		index[period] = i
	}
	for _, row := range rows {
		i, ok := index[periodKey(row.CreatedAt.In(now.Location()))]
		if !ok {
			continue
		}
		points[i].Orders++
		if row.Status == orderdomain.StatusCompleted {
			points[i].Revenue = points[i].Revenue.Add(row.TotalAmount)
		}
	}
	return points, nil
}

// customerStats ranks customers by completed revenue, then order count.
func (s *Service) customerStats(ctx context.Context, from, to *time.Time) (report.CustomerStats, error) {
	var total int64
	if err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM customers`).Scan(&total).Error; err != nil {
		return report.CustomerStats{}, err
	}

	where, args := createdBetween("o.created_at", from, to)
	args = append([]any{orderdomain.StatusCompleted}, args...)
	args = append(args, report.TopCustomers)
	query := fmt.Sprintf(`
		SELECT c.id, c.name, COUNT(o.id) AS order_count,
			COALESCE(SUM(CASE WHEN o.status = ? THEN o.total_amount ELSE 0 END), 0) AS revenue
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE %s
		GROUP BY c.id, c.name
		ORDER BY revenue DESC, order_count DESC, c.name ASC
		LIMIT ?`, where)

	var ranking []report.CustomerRanking
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&ranking).Error; err != nil {
		return report.CustomerStats{}, err
	}
	if ranking == nil {
		ranking = []report.CustomerRanking{}
	}
	return report.CustomerStats{Total: total, TopCustomers: ranking}, nil
}

func (s *Service) materialUsage(ctx context.Context) ([]report.MaterialUsage, error) {
	var usage []report.MaterialUsage
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, name, current_stock AS stock, current_stock * unit_price AS cost
		FROM materials
		WHERE is_active = ?
		ORDER BY cost DESC, name ASC
		LIMIT ?`,
		true, report.TopMaterials,
	).Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	if usage == nil {
		usage = []report.MaterialUsage{}
	}
	return usage, nil
}

func createdBetween(column string, from, to *time.Time) (string, []any) {
	clauses := []string{"1 = 1"}
	var args []any
	if from != nil {
		clauses = append(clauses, column+" >= ?")
		args = append(args, *from)
	}
	if to != nil {
		clauses = append(clauses, column+" < ?")
		args = append(args, *to)
	}
	return strings.Join(clauses, " AND "), args
}

func truncateToMonth(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, value.Location())
}

func periodKey(value time.Time) string {
	return value.Format("2006-01")
}
