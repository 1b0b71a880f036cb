package server

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

// parseOptionalTime accepts RFC3339 or a bare date. With exclusiveEnd a bare
// date is moved to the start of the next day so the whole day is included.
func parseOptionalTime(value string, exclusiveEnd bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		if exclusiveEnd {
			parsed = parsed.AddDate(0, 0, 1)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

// queryList reads a multi-value query parameter given either repeated
// (?tags=a&tags=b) or comma separated (?tags=a,b).
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryIDParam(c *gin.Context, key string) (*snowflake.ID, error) {
	id, err := parseOptionalSnowflakeID(c.Query(key))
	if err != nil {
		return nil, newValidationError(key, "invalid_format", "invalid "+key)
	}
	return id, nil
}

func queryTimeParam(c *gin.Context, key string, exclusiveEnd bool) (*time.Time, error) {
	t, err := parseOptionalTime(c.Query(key), exclusiveEnd)
	if err != nil {
		return nil, newValidationError(key, "invalid_format", "invalid "+key)
	}
	return t, nil
}
