package user

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller  *UserController
	roleService middleware.RoleService
	config      *config.Config
}

func NewUserApi(controller *UserController, roleService middleware.RoleService, config *config.Config) *UserApi {
	return &UserApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Post("/", middleware.RequirePermission(h.roleService, "users:manage"), h.controller.CreateUser)
	users.Get("/", h.controller.ListUsers)
	users.Get("/:id", h.controller.GetUser)
	users.Put("/:id/roles", middleware.RequirePermission(h.roleService, "users:manage"), h.controller.UpdateRoles)
	users.Put("/:id/status", middleware.RequirePermission(h.roleService, "users:manage"), h.controller.SetStatus)
}
