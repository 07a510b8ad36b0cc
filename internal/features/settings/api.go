package settings

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	controller  *SettingsController
	roleService middleware.RoleService
	config      *config.Config
}

func NewSettingsApi(controller *SettingsController, roleService middleware.RoleService, config *config.Config) *SettingsApi {
	return &SettingsApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *SettingsApi) Setup(app *fiber.App) {
	s := app.Group("/api/settings", middleware.AuthMiddleware(h.config.SkipAuth))

	s.Get("/approval", h.controller.GetApprovalConfig)
	s.Put("/approval", middleware.RequirePermission(h.roleService, "settings:manage"), h.controller.UpdateApprovalConfig)
	s.Get("/general", h.controller.GetGeneralConfig)
	s.Put("/general", middleware.RequirePermission(h.roleService, "settings:manage"), h.controller.UpdateGeneralConfig)
}
