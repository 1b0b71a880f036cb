package option

import (
	"testing"

	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", ContainsPattern("abc"))
	assert.Equal(t, "%50!%%", ContainsPattern("50%"))
	assert.Equal(t, "%a!_b%", ContainsPattern("a_b"))
	assert.Equal(t, "%wow!!%", ContainsPattern("wow!"))
}

type searchRow struct {
	ID   uint
	Code string
	Name string
}

func TestWithSearch(t *testing.T) {
	conn := dbtest.New(t, &searchRow{})
	rows := []searchRow{
		{Code: "A-500", Name: "plain"},
		{Code: "A-50%", Name: "discount"},
		{Code: "B_1", Name: "Under Score"},
		{Code: "BX1", Name: "other!"},
	}
	require.NoError(t, conn.Create(&rows).Error)

	find := func(text string) []string {
		var got []searchRow
		stmt := WithSearch(text, "code", "name").Apply(conn.Model(&searchRow{}))
		require.NoError(t, stmt.Order("id").Find(&got).Error)
		codes := make([]string, 0, len(got))
		for _, r := range got {
			codes = append(codes, r.Code)
		}
		return codes
	}

	assert.Equal(t, []string{"A-50%"}, find("50%"))
	assert.Equal(t, []string{"B_1"}, find("b_"))
	assert.Equal(t, []string{"BX1"}, find("R!"))
	assert.Equal(t, []string{"B_1"}, find(" UNDER "))
	assert.Len(t, find("   "), 4)
}
