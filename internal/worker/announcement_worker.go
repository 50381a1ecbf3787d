package worker

import (
	"github.com/questforge/quest-board/internal/service"
)

// StartAnnouncementWorker registers announcement handlers.
func StartAnnouncementWorker(announcementService *service.AnnouncementService) {
	if announcementService == nil {
		return
	}
	announcementService.RegisterHandlers()
}
