package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/schema"
)

const (
	TypeOverview  = "overview"
	TypeOrders    = "orders"
	TypeCustomers = "customers"
	TypeMaterials = "materials"
)

var Types = schema.NewEnum("report_type", TypeOverview, TypeOrders, TypeCustomers, TypeMaterials)

const (
	TrendMonths  = 6
	TopCustomers = 5
	TopMaterials = 5
)

// Request selects the report sections. DateFrom is inclusive and DateTo
// exclusive; they narrow the order based sections except the trend.
type Request struct {
	ReportType string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type MonthlyPoint struct {
	Period  string          `json:"period"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OrderStats struct {
	NewOrders    int64           `json:"newOrders"`
	Pending      int64           `json:"pending"`
	InProgress   int64           `json:"inProgress"`
	Completed    int64           `json:"completed"`
	Cancelled    int64           `json:"cancelled"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	MonthlyTrend []MonthlyPoint  `json:"monthlyTrend"`
}

type CustomerRanking struct {
	ID         snowflake.ID    `json:"id"`
	Name       string          `json:"name"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type CustomerStats struct {
	Total        int64             `json:"total"`
	TopCustomers []CustomerRanking `json:"topCustomers"`
}

type MaterialUsage struct {
	ID    snowflake.ID    `json:"id"`
	Name  string          `json:"name"`
	Stock decimal.Decimal `json:"stock"`
	Cost  decimal.Decimal `json:"cost"`
}

type Report struct {
	ReportType    string          `json:"reportType"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	OrderStats    *OrderStats     `json:"orderStats,omitempty"`
	CustomerStats *CustomerStats  `json:"customerStats,omitempty"`
	MaterialUsage []MaterialUsage `json:"materialUsage,omitempty"`
}

type Service interface {
	Generate(context.Context, Request) (Report, error)
}

var ErrInvalidRange = errors.New("invalid_date_range")
