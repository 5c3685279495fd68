package worker

import (
	"github.com/spec-kit/band-vault/internal/service"
)

// StartActivityWorker registers the audit log handlers.
func StartActivityWorker(activity *service.ActivityService) {
	if activity == nil {
		return
	}
	activity.RegisterHandlers()
}
