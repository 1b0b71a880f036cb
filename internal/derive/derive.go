// Package derive holds the pure rules that compute dependent fields from
// their inputs. Services apply them before persisting so stored values never
// drift from their sources.
package derive

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// TotalAmount is quantity × unitPrice.
func TotalAmount(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice)
}

// MOQPrice prices the minimum order of a roll: width in millimetres times
// length in metres gives square metres, multiplied by the price per square
// metre. Any zero input yields zero.
func MOQPrice(widthMM, lengthM, unitPricePerSqm decimal.Decimal) decimal.Decimal {
	if widthMM.IsZero() || lengthM.IsZero() || unitPricePerSqm.IsZero() {
		return decimal.Zero
	}
	return widthMM.Div(thousand).Mul(lengthM).Mul(unitPricePerSqm).Round(2)
}

// ToleranceTable resolves a quality grade to its default colour-difference
// tolerance.
type ToleranceTable interface {
	Tolerance(grade string) (float64, bool)
}

// DefaultTolerance returns the tolerance for grade and whether one applies.
func DefaultTolerance(table ToleranceTable, grade string) (decimal.Decimal, bool) {
	if table == nil {
		return decimal.Zero, false
	}
	value, ok := table.Tolerance(strings.TrimSpace(grade))
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(value), true
}

// ResizeSpotColors grows colors with empty entries or truncates from the end
// so that len(result) == count. Existing entries keep their index.
func ResizeSpotColors(colors []string, count int) []string {
	if count < 0 {
		count = 0
	}
	out := make([]string, count)
	copy(out, colors)
	return out
}

// ResolveOther returns the text to display for an enum value paired with a
// free-text override.
func ResolveOther(value, otherText string) string {
	if value == "other" {
		if text := strings.TrimSpace(otherText); text != "" {
			return text
		}
	}
	return value
}

// ResolveOtherList resolves a multi-value field: the sentinel entry is
// replaced by the override text.
func ResolveOtherList(values []string, otherText string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, ResolveOther(v, otherText))
	}
	return out
}

// KeepOther returns otherText when value is the sentinel and "" otherwise.
func KeepOther(value, otherText string) string {
	if value != "other" {
		return ""
	}
	return strings.TrimSpace(otherText)
}

// KeepOtherList is KeepOther for multi-value fields.
func KeepOtherList(values []string, otherText string) string {
	for _, v := range values {
		if v == "other" {
			return strings.TrimSpace(otherText)
		}
	}
	return ""
}

// Due status buckets.
const (
	DueOverdue = "overdue"
	DueUrgent  = "urgent"
	DueWarning = "warning"
	DueOK      = "ok"
)

// DueStatus classifies a delivery date relative to now. Days are whole days
// rounded up; a nil date is always ok.
func DueStatus(now time.Time, due *time.Time) (int, string) {
	if due == nil || due.IsZero() {
		return 0, DueOK
	}
	days := int(math.Ceil(due.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return -days, DueOverdue
	case days <= 3:
		return days, DueUrgent
	case days <= 7:
		return days, DueWarning
	default:
		return days, DueOK
	}
}
