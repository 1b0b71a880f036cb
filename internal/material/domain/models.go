package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/schema"
	"gorm.io/datatypes"
)

var (
	Categories = schema.NewEnum("material_category", "film", "paper", "adhesive", "liner", "ink", "foil", "coating", schema.Other)
	Statuses   = schema.NewEnum("material_status", StatusActive, "inactive", "under_review", "discontinued")
)

const StatusActive = "active"

// Material is a raw-material catalog entry.
type Material struct {
	ID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`

	Name          string `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	MaterialCode  string `gorm:"size:50;index" json:"materialCode" validate:"max=50"`
	Category      string `gorm:"size:32;not null;index" json:"category" validate:"required,enum=material_category"`
	CategoryOther string `gorm:"size:200" json:"categoryOther" validate:"otherfor=Category"`
	Type          string `gorm:"size:100;index" json:"type" validate:"max=100"`
	SubType       string `gorm:"size:100" json:"subType" validate:"max=100"`
	Description   string `gorm:"type:text" json:"description"`

	PrimarySupplierID    *snowflake.ID                            `gorm:"index" json:"primarySupplierId"`
	SupplierProductCode  string                                   `gorm:"size:100" json:"supplierProductCode" validate:"max=100"`
	AlternativeSuppliers datatypes.JSONSlice[AlternativeSupplier] `gorm:"not null" json:"alternativeSuppliers" validate:"dive"`

	Thickness decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"thickness" validate:"gte=0"`
	Width     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"width" validate:"gte=0"`
	Length    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"length" validate:"gte=0"`
	Density   decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"density" validate:"gte=0"`
	Opacity   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"opacity" validate:"gte=0,lte=100"`
	Gloss     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"gloss" validate:"gte=0"`

	Color                    string                                  `gorm:"size:50" json:"color" validate:"max=50"`
	AdhesiveType             string                                  `gorm:"size:100" json:"adhesiveType" validate:"max=100"`
	TemperatureResistanceMin *int                                    `json:"temperatureResistanceMin"`
	TemperatureResistanceMax *int                                    `json:"temperatureResistanceMax"`
	ChemicalResistance       datatypes.JSONType[ChemicalResistance] `gorm:"not null" json:"chemicalResistance"`
	PrintingMethods          datatypes.JSONSlice[string]             `gorm:"not null" json:"printingMethods"`

	Unit                 string          `gorm:"size:20;not null" json:"unit" validate:"required,max=20"`
	UnitPrice            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice" validate:"gte=0"`
	MinimumOrderQuantity decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"minimumOrderQuantity"`
	LeadTimeDays         int             `gorm:"not null" json:"leadTimeDays" validate:"gte=0"`
	CurrentStock         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"currentStock" validate:"gte=0"`
	MinimumStock         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minimumStock" validate:"gte=0"`

	CompatibleLabelTypes    datatypes.JSONSlice[string] `gorm:"not null" json:"compatibleLabelTypes"`
	RecommendedApplications datatypes.JSONSlice[string] `gorm:"not null" json:"recommendedApplications"`
	Tags                    datatypes.JSONSlice[string] `gorm:"not null" json:"tags"`

	Status    string    `gorm:"size:32;not null;index" json:"status" validate:"required,enum=material_status"`
	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

type AlternativeSupplier struct {
	SupplierID  snowflake.ID    `json:"supplierId" validate:"required"`
	ProductCode string          `json:"productCode" validate:"max=100"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

// ChemicalResistance flags which agents a material withstands.
type ChemicalResistance struct {
	Water   bool   `json:"water"`
	Alcohol bool   `json:"alcohol"`
	Acid    bool   `json:"acid"`
	Alkali  bool   `json:"alkali"`
	Oil     bool   `json:"oil"`
	Solvent bool   `json:"solvent"`
	Other   string `json:"other"`
}

// Resists reports whether the named agent is covered. Unknown names never
// match.
func (c ChemicalResistance) Resists(agent string) bool {
	switch agent {
	case "water":
		return c.Water
	case "alcohol":
		return c.Alcohol
	case "acid":
		return c.Acid
	case "alkali":
		return c.Alkali
	case "oil":
		return c.Oil
	case "solvent":
		return c.Solvent
	default:
		return false
	}
}

// SupplierSummary is the primary supplier joined onto material reads.
type SupplierSummary struct {
	ID             snowflake.ID `json:"id"`
	BusinessName   string       `json:"businessName"`
	SupplierGrade  string       `json:"supplierGrade"`
	ApprovalStatus string       `json:"approvalStatus"`
}

type MaterialView struct {
	Material
	PrimarySupplier *SupplierSummary `json:"primarySupplier"`
}
