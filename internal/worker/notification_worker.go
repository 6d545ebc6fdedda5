// Package worker starts the background consumers of domain events.
package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/service"
)

// StartNotificationWorker subscribes the lead alert and admin response emails to the
// dispatcher. Handlers run synchronously inside Publish, so there is no goroutine to stop.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification worker disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
