package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LabelSpec is a reusable label template in the label library.
type LabelSpec struct {
	ID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`

	LabelName    string `gorm:"size:200;not null" json:"labelName" validate:"required,max=200"`
	CustomerCode string `gorm:"size:100" json:"customerCode" validate:"max=100"`
	LibraryCode  string `gorm:"size:100;index" json:"libraryCode" validate:"max=100"`
	OtherCode    string `gorm:"size:100" json:"otherCode" validate:"max=100"`

	SizeWidth             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"sizeWidth" validate:"gte=0"`
	SizeHeight            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"sizeHeight" validate:"gte=0"`
	Shape                 string          `gorm:"size:32" json:"shape" validate:"omitempty,enum=label_shape"`
	ShapeOther            string          `gorm:"size:200" json:"shapeOther" validate:"otherfor=Shape"`
	ReleaseDirection      string          `gorm:"size:32" json:"releaseDirection" validate:"omitempty,enum=release_direction"`
	ReleaseDirectionOther string          `gorm:"size:200" json:"releaseDirectionOther" validate:"otherfor=ReleaseDirection"`
	TotalOrderQuantity    int64           `gorm:"not null" json:"totalOrderQuantity" validate:"gte=0"`

	LabelTypes           datatypes.JSONSlice[string] `gorm:"not null" json:"labelTypes" validate:"dive,enum=label_type"`
	LabelTypesOther      string                      `gorm:"size:200" json:"labelTypesOther" validate:"otherfor=LabelTypes"`
	UseEnvironments      datatypes.JSONSlice[string] `gorm:"not null" json:"useEnvironments" validate:"dive,enum=use_environment"`
	UseEnvironmentsOther string                      `gorm:"size:200" json:"useEnvironmentsOther" validate:"otherfor=UseEnvironments"`
	AdhesionSurface      string                      `gorm:"size:32" json:"adhesionSurface" validate:"omitempty,enum=adhesion_surface"`
	AdhesionSurfaceOther string                      `gorm:"size:200" json:"adhesionSurfaceOther" validate:"otherfor=AdhesionSurface"`

	SurfaceLayerCount int                               `gorm:"not null" json:"surfaceLayerCount" validate:"gte=0,lte=10"`
	SurfaceLayers     datatypes.JSONSlice[SurfaceLayer] `gorm:"not null" json:"surfaceLayers" validate:"dive"`
	Thickness         string                            `gorm:"size:50" json:"thickness" validate:"max=50"`
	Color             string                            `gorm:"size:50" json:"color" validate:"max=50"`
	Adhesives         datatypes.JSONSlice[string]       `gorm:"not null" json:"adhesives"`
	Liners            datatypes.JSONSlice[string]       `gorm:"not null" json:"liners"`

	PrintMethods      datatypes.JSONSlice[string] `gorm:"not null" json:"printMethods" validate:"dive,enum=print_method"`
	PrintMethodsOther string                      `gorm:"size:200" json:"printMethodsOther" validate:"otherfor=PrintMethods"`
	SpotColorCount    int                         `gorm:"not null" json:"spotColorCount" validate:"gte=0"`
	PantoneColors     datatypes.JSONSlice[string] `gorm:"not null" json:"pantoneColors"`
	SpecialPrint      SpecialPrint                `gorm:"embedded;embeddedPrefix:special_print_" json:"specialPrint"`

	UVCoating        string `gorm:"column:uv_coating;size:32" json:"uvCoating" validate:"omitempty,enum=coating_option"`
	UVCoatingOther   string `gorm:"column:uv_coating_other;size:200" json:"uvCoatingOther" validate:"otherfor=UVCoating"`
	Laminating       string `gorm:"size:32" json:"laminating" validate:"omitempty,enum=coating_option"`
	LaminatingOther  string `gorm:"size:200" json:"laminatingOther" validate:"otherfor=Laminating"`
	DieCutting       string `gorm:"size:32" json:"dieCutting" validate:"omitempty,enum=die_cutting"`
	DieCuttingOther  string `gorm:"size:200" json:"dieCuttingOther" validate:"otherfor=DieCutting"`
	CuttingPrecision string `gorm:"size:8" json:"cuttingPrecision" validate:"omitempty,enum=cutting_precision"`
	OtherProcessing  string `gorm:"type:text" json:"otherProcessing"`

	InspectionItems       datatypes.JSONSlice[string] `gorm:"not null" json:"inspectionItems" validate:"dive,enum=inspection_item"`
	InspectionItemsOther  string                      `gorm:"size:200" json:"inspectionItemsOther" validate:"otherfor=InspectionItems"`
	ColorDifferenceMethod string                      `gorm:"size:32" json:"colorDifferenceMethod" validate:"omitempty,enum=color_difference_method"`
	ColorDifferenceValue  *decimal.Decimal            `gorm:"type:numeric(4,2)" json:"colorDifferenceValue" validate:"omitempty,gte=0,lte=20"`
	QualityGrade          string                      `gorm:"size:16" json:"qualityGrade" validate:"omitempty,enum=quality_grade"`

	PackagingMethod      string `gorm:"size:32" json:"packagingMethod" validate:"omitempty,enum=packaging_method"`
	PackagingMethodOther string `gorm:"size:200" json:"packagingMethodOther" validate:"otherfor=PackagingMethod"`
	LabelsPerSheet       int    `gorm:"not null" json:"labelsPerSheet" validate:"gte=0"`
	SheetsPerBundle      int    `gorm:"not null" json:"sheetsPerBundle" validate:"gte=0"`

	Description string                      `gorm:"type:text" json:"description"`
	Tags        datatypes.JSONSlice[string] `gorm:"not null" json:"tags"`
	IsActive    bool                        `gorm:"not null;index" json:"isActive"`
	CreatedBy   string                      `gorm:"size:100" json:"createdBy"`
	CreatedAt   time.Time                   `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time                   `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

func (LabelSpec) TableName() string { return "label_specs" }

// SurfaceLayer is one printed face material of a laminated label.
type SurfaceLayer struct {
	Layer      int           `json:"layer" validate:"gte=1"`
	MaterialID *snowflake.ID `json:"materialId,omitempty"`
	Material   string        `json:"material" validate:"max=200"`
}

// SpecialPrint groups the foil stamping options.
type SpecialPrint struct {
	HotFoil         string `gorm:"size:32" json:"hotFoil" validate:"omitempty,enum=foil_option"`
	HotFoilOther    string `gorm:"size:200" json:"hotFoilOther" validate:"otherfor=HotFoil"`
	HotFoilDetails  string `gorm:"size:500" json:"hotFoilDetails"`
	ColdFoil        string `gorm:"size:32" json:"coldFoil" validate:"omitempty,enum=foil_option"`
	ColdFoilOther   string `gorm:"size:200" json:"coldFoilOther" validate:"otherfor=ColdFoil"`
	ColdFoilDetails string `gorm:"size:500" json:"coldFoilDetails"`
}

// SpecialPrintColumns are the gorm field names of the embedded SpecialPrint
// group, used when a partial update replaces the group.
var SpecialPrintColumns = []string{"HotFoil", "HotFoilOther", "HotFoilDetails", "ColdFoil", "ColdFoilOther", "ColdFoilDetails"}

// MaterialTraits are the material attributes copied into a label when its
// own material fields are empty.
type MaterialTraits struct {
	ID           snowflake.ID
	Thickness    decimal.NullDecimal
	Color        string
	AdhesiveType string
}

// HasInspection reports whether item is among the selected inspection items.
func (s *LabelSpec) HasInspection(item string) bool {
	for _, v := range s.InspectionItems {
		if v == item {
			return true
		}
	}
	return false
}
