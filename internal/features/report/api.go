package report

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller  *ReportController
	roleService middleware.RoleService
	config      *config.Config
}

func NewReportApi(controller *ReportController, roleService middleware.RoleService, config *config.Config) *ReportApi {
	return &ReportApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Get("/transactions", middleware.RequirePermission(h.roleService, "reports:export"), h.controller.ExportTransactions)
	reports.Get("/audit-logs", middleware.RequirePermission(h.roleService, "reports:export"), h.controller.ExportAuditLogs)
}
