package settlement

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettlementApi struct {
	controller  *SettlementController
	roleService middleware.RoleService
	config      *config.Config
}

func NewSettlementApi(controller *SettlementController, roleService middleware.RoleService, config *config.Config) *SettlementApi {
	return &SettlementApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *SettlementApi) Setup(app *fiber.App) {
	settlement := app.Group("/api/settlement", middleware.AuthMiddleware(h.config.SkipAuth))

	settlement.Post("/export", middleware.RequirePermission(h.roleService, "settlement:run"), h.controller.RunExport)
	settlement.Get("/logs", middleware.RequirePermission(h.roleService, "settlement:run"), h.controller.ListLogs)
}
