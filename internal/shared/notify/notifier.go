// Package notify carries user-visible notices (the toasts of a UI shell) from use
// cases to whatever presents them.
package notify

import (
	"context"
	"log/slog"
	"time"
)

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, notice Notice)

func (f Func) Notify(ctx context.Context, notice Notice) {
	if f != nil {
		f(ctx, notice)
	}
}

// LogNotifier writes notices to slog.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "user notice", slog.String("source", notice.Source), slog.String("level", string(notice.Level)), slog.String("message", notice.Message))
}

// Multi fans a notice out to every non-nil notifier.
func Multi(notifiers ...Notifier) Notifier {
	filtered := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			filtered = append(filtered, n)
		}
	}
	return Func(func(ctx context.Context, notice Notice) {
		for _, n := range filtered {
			n.Notify(ctx, notice)
		}
	})
}

// Error emits an error notice stamped with the current time. Nil notifiers are ignored.
func Error(ctx context.Context, n Notifier, source, message string) {
	emit(ctx, n, Notice{Level: LevelError, Source: source, Message: message})
}

func Success(ctx context.Context, n Notifier, source, message string) {
	emit(ctx, n, Notice{Level: LevelSuccess, Source: source, Message: message})
}

func emit(ctx context.Context, n Notifier, notice Notice) {
	if n == nil {
		return
	}
	notice.Timestamp = time.Now().UTC()
	n.Notify(ctx, notice)
}
