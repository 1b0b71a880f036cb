package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/schema"
)

const (
	StatusNew        = "new"
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var Statuses = schema.NewEnum("order_status", StatusNew, StatusPending, StatusInProgress, StatusCompleted, StatusCancelled)

// transitions lists the statuses reachable from each status. Completed and
// cancelled orders are terminal.
var transitions = map[string][]string{
	StatusNew:        {StatusPending, StatusInProgress, StatusCancelled},
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

type Order struct {
	ID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`

	ProjectNumber  string     `gorm:"size:100;not null" json:"projectNumber" validate:"required,max=100"`
	OrderNumber    string     `gorm:"size:32;not null;uniqueIndex" json:"orderNumber" validate:"max=32"`
	ReceivedDate   *time.Time `json:"receivedDate"`
	Receiver       string     `gorm:"size:100" json:"receiver" validate:"max=100"`
	ManagementCode string     `gorm:"size:100" json:"managementCode" validate:"max=100"`

	CustomerID      *snowflake.ID `gorm:"index" json:"customerId"`
	OrderCompany    string        `gorm:"size:200" json:"orderCompany" validate:"max=200"`
	OrderPerson     string        `gorm:"size:100" json:"orderPerson" validate:"max=100"`
	OrderDepartment string        `gorm:"size:100" json:"orderDepartment" validate:"max=100"`

	ProductName  string          `gorm:"size:200" json:"productName" validate:"max=200"`
	ProductSpecs string          `gorm:"type:text" json:"productSpecs"`
	Quantity     int64           `gorm:"not null" json:"quantity" validate:"gte=0"`
	OrderFormat  string          `gorm:"size:100" json:"orderFormat" validate:"max=100"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unitPrice" validate:"gte=0"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalAmount"`

	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate"`
	RequiredDeliveryDate *time.Time `json:"requiredDeliveryDate"`

	Status          string        `gorm:"size:16;not null;index" json:"status" validate:"required,enum=order_status"`
	AssignedTo      *snowflake.ID `gorm:"index" json:"assignedTo"`
	LabelSpecID     *snowflake.ID `gorm:"index" json:"labelSpecId"`
	Notes           string        `gorm:"type:text" json:"notes"`
	IsComplimentary bool          `gorm:"not null" json:"isComplimentary"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

type CustomerSummary struct {
	ID            snowflake.ID `json:"id"`
	Name          string       `json:"name"`
	ContactPerson string       `json:"contactPerson"`
	Phone         string       `json:"phone"`
}

type UserSummary struct {
	ID       snowflake.ID `json:"id"`
	Username string       `json:"username"`
	Role     string       `json:"role"`
	Position string       `json:"position"`
}

type LabelSpecSummary struct {
	ID          snowflake.ID `json:"id"`
	LabelName   string       `json:"labelName"`
	LibraryCode string       `json:"libraryCode"`
}

// OrderView is an order joined with its references and due-date status.
type OrderView struct {
	Order
	Customer     *CustomerSummary  `json:"customer"`
	AssignedUser *UserSummary      `json:"assignedUser"`
	LabelSpec    *LabelSpecSummary `json:"labelSpec"`
	DueStatus    string            `json:"dueStatus"`
	DueDays      int               `json:"dueDays"`
}

type Stats struct {
	NewOrders    int64           `json:"newOrders"`
	Pending      int64           `json:"pending"`
	InProgress   int64           `json:"inProgress"`
	Completed    int64           `json:"completed"`
	Cancelled    int64           `json:"cancelled"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// StatusTotal is one GROUP BY status row.
type StatusTotal struct {
	Status string
	Count  int64
	Amount decimal.Decimal
}
