package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
	// LogParams keeps bound values in logged SQL. Only enable it locally.
	LogParams bool
}

// DefaultGormLoggerConfig returns production-safe defaults.
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        200 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
}

// GormLogger writes gorm statements and messages to the request logger.
type GormLogger struct {
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
	logParams            bool
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		level:                cfg.Level,
		slowThreshold:        cfg.SlowThreshold,
		ignoreRecordNotFound: cfg.IgnoreRecordNotFound,
		logParams:            cfg.LogParams,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zap.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zap.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zap.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.level < min {
		return
	}
	fields := []zap.Field{zap.String("component", "gorm")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Trace logs a finished statement. Failed statements log at error level,
// except duplicate keys, which order numbering resolves by retrying and
// therefore log at warn.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	level, ok := l.levelFor(err, elapsed)
	if !ok {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("sql", strings.TrimSpace(sql)),
		zap.String("operation", operationFromSQL(sql)),
		zap.String("table", tableFromSQL(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := FromContext(ctx).Check(level, "db_query"); ce != nil {
		ce.Write(fields...)
	}
}

func (l *GormLogger) levelFor(err error, elapsed time.Duration) (zapcore.Level, bool) {
	switch {
	case l.level <= gormlogger.Silent:
		return zapcore.DebugLevel, false
	case err != nil && errors.Is(err, gormlogger.ErrRecordNotFound) && l.ignoreRecordNotFound:
		return l.levelFor(nil, elapsed)
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey) && l.level >= gormlogger.Warn:
		return zapcore.WarnLevel, true
	case err != nil && l.level >= gormlogger.Error:
		return zapcore.ErrorLevel, true
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		return zapcore.WarnLevel, true
	case l.level >= gormlogger.Info:
		return zapcore.DebugLevel, true
	default:
		return zapcore.DebugLevel, false
	}
}

// ParamsFilter strips bound values unless LogParams is set.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.logParams {
		return sql, params
	}
	return sql, nil
}

// operationFromSQL returns the statement verb outside any parentheses, so
// a CTE or subquery does not mask the outer write.
func operationFromSQL(sql string) string {
	op := "UNKNOWN"
	walkTopLevel(strings.ToUpper(sql), func(_ int, word string) bool {
		switch word {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "MERGE":
			op = word
			return false
		}
		return true
	})
	return op
}

func tableFromSQL(sql string) string {
	tokens := strings.Fields(sql)
	table := ""
	walkTopLevel(sql, func(i int, word string) bool {
		switch strings.ToUpper(word) {
		case "FROM", "INTO", "UPDATE":
			if i+1 < len(tokens) {
				table = strings.Trim(tokens[i+1], "`\"();,")
				return false
			}
		}
		return true
	})
	return table
}

// walkTopLevel calls fn with each whitespace separated word of sql that sits
// at parenthesis depth zero until fn returns false.
func walkTopLevel(sql string, fn func(index int, word string) bool) {
	depth := 0
	for i, token := range strings.Fields(sql) {
		word := strings.TrimLeft(token, "(")
		depth += len(token) - len(word)
		if depth == 0 {
			if !fn(i, strings.TrimRight(word, "();,")) {
				return
			}
		}
		depth += strings.Count(word, "(") - strings.Count(word, ")")
		if depth < 0 {
			depth = 0
		}
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
