package automation

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller  *AutomationController
	roleService middleware.RoleService
	config      *config.Config
}

func NewAutomationApi(controller *AutomationController, roleService middleware.RoleService, config *config.Config) *AutomationApi {
	return &AutomationApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	rules := app.Group("/api/automation", middleware.AuthMiddleware(h.config.SkipAuth))

	rules.Post("/", middleware.RequirePermission(h.roleService, "automation:edit"), h.controller.CreateRule)
	rules.Get("/", middleware.RequirePermission(h.roleService, "automation:edit"), h.controller.ListRules)
	rules.Get("/:id", middleware.RequirePermission(h.roleService, "automation:edit"), h.controller.GetRule)
	rules.Put("/:id", middleware.RequirePermission(h.roleService, "automation:edit"), h.controller.UpdateRule)
	rules.Delete("/:id", middleware.RequirePermission(h.roleService, "automation:edit"), h.controller.DeleteRule)
}
