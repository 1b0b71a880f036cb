package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/clock"
	customerdomain "github.com/smallbiznis/labelworks/internal/customer/domain"
	materialdomain "github.com/smallbiznis/labelworks/internal/material/domain"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	report "github.com/smallbiznis/labelworks/internal/report/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (report.Service, *gorm.DB) {
	t.Helper()

	conn := dbtest.New(t, &orderdomain.Order{}, &customerdomain.Customer{}, &materialdomain.Material{})
	return NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
	}), conn
}

func seed(t *testing.T, conn *gorm.DB) {
	t.Helper()

	for _, c := range []customerdomain.Customer{
		{ID: 1, Name: "ABC Corp", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Bora Foods", CreatedAt: now, UpdatedAt: now},
		{ID: 3, Name: "Idle Ltd", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, conn.Create(&c).Error)
	}

	abc, bora := snowflake.ID(1), snowflake.ID(2)
	orders := []struct {
		number   string
		customer *snowflake.ID
		status   string
		amount   int64
		created  time.Time
	}{
		{"ORD-2025-001", &abc, orderdomain.StatusCompleted, 1000, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"ORD-2025-002", &abc, orderdomain.StatusNew, 500, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{"ORD-2025-003", &bora, orderdomain.StatusCompleted, 200, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
		{"ORD-2024-050", nil, orderdomain.StatusCompleted, 999, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i, o := range orders {
		require.NoError(t, conn.Create(&orderdomain.Order{
			ID:            snowflake.ID(100 + i),
			ProjectNumber: o.number,
			OrderNumber:   o.number,
			CustomerID:    o.customer,
			Quantity:      1,
			UnitPrice:     decimal.NewFromInt(o.amount),
			TotalAmount:   decimal.NewFromInt(o.amount),
			Status:        o.status,
			CreatedAt:     o.created,
			UpdatedAt:     o.created,
		}).Error)
	}

	for i, m := range []struct {
		name   string
		stock  int64
		price  int64
		active bool
	}{
		{"PP film", 10, 100, true},
		{"Art paper", 50, 30, true},
		{"Old foil", 1000, 1000, false},
	} {
		require.NoError(t, conn.Create(&materialdomain.Material{
			ID:           snowflake.ID(200 + i),
			Name:         m.name,
			Category:     "film",
			Unit:         "roll",
			Status:       materialdomain.StatusActive,
			CurrentStock: decimal.NewFromInt(m.stock),
			UnitPrice:    decimal.NewFromInt(m.price),
			IsActive:     m.active,
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error)
	}
}

func TestOverviewReport(t *testing.T) {
	svc, conn := newTestService(t)
	seed(t, conn)

	out, err := svc.Generate(context.Background(), report.Request{})
	require.NoError(t, err)
	assert.Equal(t, report.TypeOverview, out.ReportType)

	require.NotNil(t, out.OrderStats)
	assert.Equal(t, int64(3), out.OrderStats.Completed)
	assert.Equal(t, int64(1), out.OrderStats.NewOrders)
	assert.True(t, out.OrderStats.TotalRevenue.Equal(decimal.NewFromInt(2199)), out.OrderStats.TotalRevenue.String())

	trend := out.OrderStats.MonthlyTrend
	require.Len(t, trend, report.TrendMonths)
	assert.Equal(t, "2025-01", trend[0].Period)
	assert.Equal(t, "2025-06", trend[5].Period)
	assert.Equal(t, int64(2), trend[5].Orders)
	assert.True(t, trend[5].Revenue.Equal(decimal.NewFromInt(1000)), trend[5].Revenue.String())
	assert.Equal(t, int64(1), trend[3].Orders)
	assert.True(t, trend[3].Revenue.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, int64(0), trend[0].Orders)

	require.NotNil(t, out.CustomerStats)
	assert.Equal(t, int64(3), out.CustomerStats.Total)
	require.Len(t, out.CustomerStats.TopCustomers, 2)
	assert.Equal(t, "ABC Corp", out.CustomerStats.TopCustomers[0].Name)
	assert.Equal(t, int64(2), out.CustomerStats.TopCustomers[0].OrderCount)
	assert.True(t, out.CustomerStats.TopCustomers[0].Revenue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Bora Foods", out.CustomerStats.TopCustomers[1].Name)

	require.Len(t, out.MaterialUsage, 2)
	assert.Equal(t, "Art paper", out.MaterialUsage[0].Name)
	assert.True(t, out.MaterialUsage[0].Cost.Equal(decimal.NewFromInt(1500)), out.MaterialUsage[0].Cost.String())
	assert.Equal(t, "PP film", out.MaterialUsage[1].Name)
}

func TestReportDateRangeNarrowsOrderSections(t *testing.T) {
	svc, conn := newTestService(t)
	seed(t, conn)

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	out, err := svc.Generate(context.Background(), report.Request{ReportType: "orders", DateFrom: &from})
	require.NoError(t, err)
	require.NotNil(t, out.OrderStats)
	assert.Nil(t, out.CustomerStats)
	assert.Nil(t, out.MaterialUsage)
	assert.Equal(t, int64(1), out.OrderStats.Completed)
	assert.True(t, out.OrderStats.TotalRevenue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(1), out.OrderStats.MonthlyTrend[3].Orders)

	customers, err := svc.Generate(context.Background(), report.Request{ReportType: report.TypeCustomers, DateFrom: &from})
	require.NoError(t, err)
	require.NotNil(t, customers.CustomerStats)
	require.Len(t, customers.CustomerStats.TopCustomers, 1)
	assert.Equal(t, "ABC Corp", customers.CustomerStats.TopCustomers[0].Name)
}

func TestReportRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, report.Request{ReportType: "quality"})
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasField("reportType", schema.CodeEnumMismatch))

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from
	_, err = svc.Generate(ctx, report.Request{DateFrom: &from, DateTo: &to})
	assert.ErrorIs(t, err, report.ErrInvalidRange)
}

func TestEmptyReport(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.Generate(context.Background(), report.Request{ReportType: report.TypeOverview})
	require.NoError(t, err)
	assert.True(t, out.OrderStats.TotalRevenue.IsZero())
	assert.Len(t, out.OrderStats.MonthlyTrend, report.TrendMonths)
	assert.Empty(t, out.CustomerStats.TopCustomers)
	assert.NotNil(t, out.MaterialUsage)
}
