package derive

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type staticTable map[string]float64

func (t staticTable) Tolerance(grade string) (float64, bool) {
	v, ok := t[grade]
	return v, ok
}

func TestTotalAmount(t *testing.T) {
	total := TotalAmount(10000, decimal.NewFromInt(120))
	assert.True(t, total.Equal(decimal.NewFromInt(1200000)))

	again := TotalAmount(10000, decimal.NewFromInt(120))
	assert.True(t, total.Equal(again))

	assert.True(t, TotalAmount(3, decimal.RequireFromString("0.1")).Equal(decimal.RequireFromString("0.3")))
}

func TestMOQPrice(t *testing.T) {
	price := MOQPrice(decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(850))
	assert.True(t, price.Equal(decimal.NewFromInt(425000)), price.String())

	assert.True(t, MOQPrice(decimal.Zero, decimal.NewFromInt(1000), decimal.NewFromInt(850)).IsZero())
	assert.True(t, MOQPrice(decimal.NewFromInt(500), decimal.Zero, decimal.NewFromInt(850)).IsZero())
}

func TestDefaultTolerance(t *testing.T) {
	table := staticTable{"best": 1.5, "high": 2.0}

	v, ok := DefaultTolerance(table, "best")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("1.5")))

	v, ok = DefaultTolerance(table, "high")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(2)))

	_, ok = DefaultTolerance(table, "normal")
	assert.False(t, ok)

	_, ok = DefaultTolerance(nil, "best")
	assert.False(t, ok)
}

func TestResizeSpotColors(t *testing.T) {
	colors := []string{"PANTONE 185 C", "PANTONE 300 C"}

	grown := ResizeSpotColors(colors, 4)
	assert.Equal(t, []string{"PANTONE 185 C", "PANTONE 300 C", "", ""}, grown)

	shrunk := ResizeSpotColors(grown, 1)
	assert.Equal(t, []string{"PANTONE 185 C"}, shrunk)

	assert.Empty(t, ResizeSpotColors(colors, -2))
	assert.Equal(t, []string{"PANTONE 185 C", "PANTONE 300 C"}, colors)
}

func TestResolveOther(t *testing.T) {
	assert.Equal(t, "gloss", ResolveOther("gloss", "ignored"))
	assert.Equal(t, "pearl varnish", ResolveOther("other", " pearl varnish "))
	assert.Equal(t, "other", ResolveOther("other", ""))
	assert.Equal(t, []string{"flexo", "pad print"}, ResolveOtherList([]string{"flexo", "other"}, "pad print"))

	assert.Empty(t, KeepOther("gloss", "stale"))
	assert.Equal(t, "satin", KeepOther("other", "satin"))
	assert.Empty(t, KeepOtherList([]string{"flexo"}, "stale"))
	assert.Equal(t, "pad", KeepOtherList([]string{"flexo", "other"}, "pad"))
}

func TestDueStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	cases := []struct {
		name   string
		due    *time.Time
		days   int
		status string
	}{
		{"nil", nil, 0, DueOK},
		{"overdue", at(-49 * time.Hour), 2, DueOverdue},
		{"today", at(0), 0, DueUrgent},
		{"three days", at(72 * time.Hour), 3, DueUrgent},
		{"within week", at(5 * 24 * time.Hour), 5, DueWarning},
		{"far", at(30 * 24 * time.Hour), 30, DueOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, status := DueStatus(now, tc.due)
			assert.Equal(t, tc.days, days)
			assert.Equal(t, tc.status, status)
		})
	}
}
