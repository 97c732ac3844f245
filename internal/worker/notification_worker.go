package worker

import (
	"github.com/Behnamfe76/expense-ledger/internal/service"
)

// StartNotificationWorker registers the ledger event handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
