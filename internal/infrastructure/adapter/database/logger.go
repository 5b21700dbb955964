package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	logctx "github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
	gormlogger "gorm.io/gorm/logger"
)

// statementTarget captures the verb and the first table a statement touches
var statementTarget = regexp.MustCompile(`(?is)^\s*(?:(UPDATE)\s+|(SELECT|INSERT|DELETE)\b.*?\b(?:FROM|INTO)\s+)["` + "`" + `]?(\w+)`)

// DatabaseLogger routes gorm statements to the core logger
type DatabaseLogger struct {
	coreLogger    coreport.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	timeProvider  coreport.TimeProvider
}

// NewDatabaseLoggerWithTimeProvider creates a gorm logger for the given level
// name (silent, error, warn, info). Unknown names fall back to warn.
func NewDatabaseLoggerWithTimeProvider(coreLogger coreport.Logger, timeProvider coreport.TimeProvider, level string) *DatabaseLogger {
	return &DatabaseLogger{
		coreLogger:    coreLogger.With(map[string]any{"source": "database"}),
		level:         parseGormLevel(level),
		slowThreshold: coreport.Millisecond.Std() * 200,
		timeProvider:  timeProvider,
	}
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *DatabaseLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// WithSlowThreshold returns a copy that warns about statements slower than threshold
func (l *DatabaseLogger) WithSlowThreshold(threshold time.Duration) *DatabaseLogger {
	clone := *l
	clone.slowThreshold = threshold
	return &clone
}

func (l *DatabaseLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.coreLogger.Info(fmt.Sprintf(msg, data...), l.contextFields(ctx))
	}
}

func (l *DatabaseLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.coreLogger.Warn(fmt.Sprintf(msg, data...), l.contextFields(ctx))
	}
}

func (l *DatabaseLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.coreLogger.Error(fmt.Sprintf(msg, data...), l.contextFields(ctx))
	}
}

// Trace logs one executed statement. Failures are errors, slow statements are
// warnings and everything else is debug output at the info level.
// A missing record is a normal lookup outcome and is not reported as a failure.
func (l *DatabaseLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := l.elapsed(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	if !failed && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := l.contextFields(ctx)
	fields["elapsed_ms"] = elapsed.Milliseconds()
	fields["rows"] = rows
	fields["sql"] = sql
	if verb, table := describeStatement(sql); verb != "" {
		fields["verb"] = verb
		fields["table"] = table
	}

	switch {
	case failed && l.level >= gormlogger.Error:
		fields["error"] = err.Error()
		l.coreLogger.Error("SQL statement failed", fields)
	case slow && l.level >= gormlogger.Warn:
		l.coreLogger.Warn("Slow SQL statement", fields)
	case l.level >= gormlogger.Info:
		l.coreLogger.Debug("SQL statement", fields)
	}
}

func (l *DatabaseLogger) elapsed(begin time.Time) time.Duration {
	if l.timeProvider == nil {
		return time.Since(begin)
	}
	return l.timeProvider.Since(begin).Std()
}

func (l *DatabaseLogger) contextFields(ctx context.Context) map[string]any {
	fields := map[string]any{}
	if requestID := logctx.RequestIDFromContext(ctx); requestID != "" {
		fields["trace_id"] = requestID
	}
	return fields
}

// describeStatement returns the upper-case verb and the lower-case table of sql,
// or empty strings for statements it does not recognize
func describeStatement(sql string) (verb, table string) {
	m := statementTarget.FindStringSubmatch(sql)
	if m == nil {
		return "", ""
	}
	verb = m[1]
	if verb == "" {
		verb = m[2]
	}
	return strings.ToUpper(verb), strings.ToLower(m[3])
}
