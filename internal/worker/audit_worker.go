package worker

import (
	"github.com/authkit-labs/token-auth/internal/service"
)

// StartAuditWorker registers token lifecycle audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
