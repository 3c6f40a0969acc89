package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithSessionUID adds session UID to logger context
func (l *Logger) WithSessionUID(sessionUID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_uid", sessionUID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogHoldGranted logs when a batch of seats is held
func (l *Logger) LogHoldGranted(ctx context.Context, eventSeatingID, sessionUID string, seatCount int, expiresAt time.Time) {
	l.Logger.InfoContext(ctx,
		"Seats Held",
		slog.String("event_seating_id", eventSeatingID),
		slog.String("session_uid", sessionUID),
		slog.Int("seat_count", seatCount),
		slog.Time("expires_at", expiresAt),
	)
}

// LogHoldCommitted logs when a hold converts to a sale
func (l *Logger) LogHoldCommitted(ctx context.Context, eventSeatingID, seatUID, sessionUID string) {
	l.Logger.InfoContext(ctx,
		"Hold Committed",
		slog.String("event_seating_id", eventSeatingID),
		slog.String("seat_uid", seatUID),
		slog.String("session_uid", sessionUID),
	)
}

// LogHoldsExpired logs the outcome of an expiry sweep
func (l *Logger) LogHoldsExpired(ctx context.Context, released int) {
	l.Logger.InfoContext(ctx,
		"Expired Holds Swept",
		slog.Int("released", released),
	)
}

// LogTransitionConflict logs a CAS conflict on a seat transition
func (l *Logger) LogTransitionConflict(ctx context.Context, eventSeatingID, seatUID, reason string) {
	l.Logger.DebugContext(ctx,
		"Seat Transition Conflict",
		slog.String("event_seating_id", eventSeatingID),
		slog.String("seat_uid", seatUID),
		slog.String("reason", reason),
	)
}

// LogUnresolvablePrice logs a seat with no tier and no override; data-integrity issue
func (l *Logger) LogUnresolvablePrice(ctx context.Context, eventSeatingID, seatUID string) {
	l.Logger.ErrorContext(ctx,
		"Unresolvable Seat Price",
		slog.String("event_seating_id", eventSeatingID),
		slog.String("seat_uid", seatUID),
	)
}

// Security logging methods

// LogOwnershipViolation logs a hold release/commit by a non-owning session
func (l *Logger) LogOwnershipViolation(ctx context.Context, eventSeatingID, seatUID, sessionUID string) {
	l.Logger.WarnContext(ctx,
		"Hold Ownership Violation",
		slog.String("event_seating_id", eventSeatingID),
		slog.String("seat_uid", seatUID),
		slog.String("session_uid", sessionUID),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
