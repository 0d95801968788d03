// Package notify delivers short user-facing messages. Delivery is
// fire-and-forget: failures are logged, never returned.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Severity orders notifications from least to most urgent.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

var severityNames = []string{"info", "success", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a config value to a Severity.
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", s)
}

// Notification is one message for the operator.
type Notification struct {
	Message  string
	Severity Severity
}

// Info builds an informational notification.
func Info(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Severity: SeverityInfo}
}

// Success builds a success notification.
func Success(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Severity: SeveritySuccess}
}

// Warning builds a warning notification.
func Warning(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// Notifier receives notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) {}

// Writer prints notifications as "[severity] message" lines.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	min Severity
}

// NewWriter creates a Writer that prints notifications at or above min.
func NewWriter(out io.Writer, threshold Severity) *Writer {
	return &Writer{out: out, min: threshold}
}

// Notify prints n when it meets the minimum severity.
func (w *Writer) Notify(_ context.Context, n Notification) {
	if n.Severity < w.min {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "[%s] %s\n", n.Severity, n.Message)
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a copy of everything recorded so far.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
