package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	materialdomain "github.com/smallbiznis/labelworks/internal/material/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"gorm.io/datatypes"
)

// Approval states.
const (
	ApprovalPending   = "pending"
	ApprovalReview    = "review"
	ApprovalApproved  = "approved"
	ApprovalRejected  = "rejected"
	ApprovalSuspended = "suspended"
)

var (
	SupplierTypes    = schema.NewEnum("supplier_type", "manufacturer", "distributor", "agency", schema.Other)
	SupplierGrades   = schema.NewEnum("supplier_grade", "A", "B", "C")
	ApprovalStatuses = schema.NewEnum("approval_status", ApprovalPending, ApprovalReview, ApprovalApproved, ApprovalRejected, ApprovalSuspended)
	ContactMethods   = schema.NewEnum("contact_method", "phone", "mobile", "email")

	// MaterialCategories is shared with the material catalog.
	MaterialCategories = materialdomain.Categories
)

// approvalTransitions lists the states reachable from each approval state.
var approvalTransitions = map[string][]string{
	ApprovalPending:   {ApprovalReview, ApprovalApproved, ApprovalRejected},
	ApprovalReview:    {ApprovalApproved, ApprovalRejected},
	ApprovalApproved:  {ApprovalSuspended},
	ApprovalSuspended: {ApprovalApproved},
	ApprovalRejected:  {ApprovalReview},
}

// CanTransition reports whether an approval may move from one state to
// another.
func CanTransition(from, to string) bool {
	for _, next := range approvalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Supplier struct {
	ID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`

	BusinessRegistrationNumber string `gorm:"size:20;not null;uniqueIndex" json:"businessRegistrationNumber" validate:"required,max=20"`
	BusinessName               string `gorm:"size:200;not null" json:"businessName" validate:"required,max=200"`
	BusinessNameEng            string `gorm:"size:200" json:"businessNameEng" validate:"max=200"`
	RepresentativeName         string `gorm:"size:100;not null" json:"representativeName" validate:"required,max=100"`
	BusinessType               string `gorm:"size:100" json:"businessType" validate:"max=100"`
	BusinessCategory           string `gorm:"size:100" json:"businessCategory" validate:"max=100"`
	BusinessAddress            string `gorm:"type:text;not null" json:"businessAddress" validate:"required"`
	FactoryAddress             string `gorm:"type:text" json:"factoryAddress"`

	MainPhone string `gorm:"size:50" json:"mainPhone" validate:"max=50"`
	MainFax   string `gorm:"size:50" json:"mainFax" validate:"max=50"`
	MainEmail string `gorm:"size:200" json:"mainEmail" validate:"omitempty,email"`
	Website   string `gorm:"size:200" json:"website" validate:"omitempty,url"`

	SupplierType          string                      `gorm:"size:32;not null;index" json:"supplierType" validate:"required,enum=supplier_type"`
	SupplierTypeOther     string                      `gorm:"size:200" json:"supplierTypeOther" validate:"otherfor=SupplierType"`
	SupplierGrade         string                      `gorm:"size:1;not null;index" json:"supplierGrade" validate:"required,enum=supplier_grade"`
	MaterialCategories    datatypes.JSONSlice[string] `gorm:"not null" json:"materialCategories" validate:"dive,enum=material_category"`
	QualityCertifications datatypes.JSONSlice[string] `gorm:"not null" json:"qualityCertifications"`
	PaymentTerms          string                      `gorm:"size:200" json:"paymentTerms" validate:"max=200"`

	ApprovalStatus string        `gorm:"size:16;not null;index" json:"approvalStatus" validate:"required,enum=approval_status"`
	ApprovalDate   *time.Time    `json:"approvalDate"`
	ApprovedBy     *snowflake.ID `json:"approvedBy"`

	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

type SupplierContact struct {
	ID         snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SupplierID snowflake.ID `gorm:"not null;index" json:"supplierId"`

	Name       string `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Position   string `gorm:"size:100" json:"position" validate:"max=100"`
	Department string `gorm:"size:100" json:"department" validate:"max=100"`

	DirectPhone string `gorm:"size:50" json:"directPhone" validate:"max=50"`
	MobilePhone string `gorm:"size:50" json:"mobilePhone" validate:"max=50"`
	Email       string `gorm:"size:200" json:"email" validate:"omitempty,email"`

	Responsibilities       datatypes.JSONSlice[string] `gorm:"not null" json:"responsibilities"`
	IsPrimary              bool                        `gorm:"not null" json:"isPrimary"`
	IsEmergencyContact     bool                        `gorm:"not null" json:"isEmergencyContact"`
	PreferredContactMethod string                      `gorm:"size:16" json:"preferredContactMethod" validate:"omitempty,enum=contact_method"`
	Notes                  string                      `gorm:"type:text" json:"notes"`

	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

type SupplierView struct {
	Supplier
	Contacts []SupplierContact `json:"contacts"`
}
