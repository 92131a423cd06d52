package service

import (
	"context"

	"github.com/dizegn/Prevtech-sub001/pkg/logger"
)

// Notifier receives human-readable messages after completed operations.
// Purely observational; failures to notify never affect the operation.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	logger.Info(ctx, "notification", "kind", "success", "message", message)
}

func (n *LogNotifier) Failure(ctx context.Context, message string) {
	logger.Warn(ctx, "notification", "kind", "failure", "message", message)
}
