package domain

import "time"

// ResetPasswordEvent is the notification handed to the mail consumer. It is
// transient: it travels inside a LogEntry envelope and is never stored as-is.
type ResetPasswordEvent struct {
	To        string `json:"to"`
	Role      Role   `json:"role"`
	ResetLink string `json:"resetLink"`
}

type LogLevel string

const (
	LevelInfo     LogLevel = "INFO"
	LevelWarn     LogLevel = "WARN"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
)

// LogEntry is the envelope shape shared by operational logs and reset
// notifications on the broker.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Service   string         `json:"service"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
}

func NewLogEntry(service string, level LogLevel, message string, details map[string]any) LogEntry {
	if details == nil {
		details = map[string]any{}
	}
	return LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   service,
		Level:     level,
		Message:   message,
		Details:   details,
	}
}

// Envelope folds the reset event into the shared log envelope. Details carry
// enough for the consumer to rebuild the notification without this service.
func (e ResetPasswordEvent) Envelope(service string) LogEntry {
	return NewLogEntry(service, LevelInfo, "Password reset requested", map[string]any{
		"to":        e.To,
		"role":      string(e.Role),
		"resetLink": e.ResetLink,
	})
}
