package option

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption mutates a query before it is executed.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type QueryOptionFunc func(*gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

func WithWhere(query any, args ...any) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}

func WithOrder(columns ...clause.OrderByColumn) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderBy{Columns: columns})
	})
}

// WithNewestFirst orders rows by creation time, newest first, with the id as
// a tie breaker.
func WithNewestFirst() QueryOption {
	return WithOrder(
		clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true},
		clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true},
	)
}

func WithLimit(limit int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern turns free text into a LIKE pattern that matches it
// anywhere, with wildcards in the text taken literally. Use with ESCAPE '!'.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// WithSearch matches rows where any of the columns contains text, ignoring
// case. Blank text leaves the query untouched.
func WithSearch(text string, columns ...string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		needle := strings.ToLower(strings.TrimSpace(text))
		if needle == "" || len(columns) == 0 {
			return db
		}
		pattern := ContainsPattern(needle)
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, column := range columns {
			conds[i] = "LOWER(" + column + ") LIKE ? ESCAPE '!'"
			args[i] = pattern
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	})
}
