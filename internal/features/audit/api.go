package audit

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller  *AuditController
	roleService middleware.RoleService
	config      *config.Config
}

func NewAuditApi(controller *AuditController, roleService middleware.RoleService, config *config.Config) *AuditApi {
	return &AuditApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	logs := app.Group("/api/audit-logs", middleware.AuthMiddleware(h.config.SkipAuth))
	logs.Get("/", middleware.RequirePermission(h.roleService, "audit:read"), h.controller.ListLogs)
}
