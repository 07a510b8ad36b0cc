package wallet

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WalletApi struct {
	controller  *WalletController
	roleService middleware.RoleService
	config      *config.Config
}

func NewWalletApi(controller *WalletController, roleService middleware.RoleService, config *config.Config) *WalletApi {
	return &WalletApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *WalletApi) Setup(app *fiber.App) {
	wallets := app.Group("/api/wallets", middleware.AuthMiddleware(h.config.SkipAuth))

	wallets.Post("/", middleware.RequirePermission(h.roleService, "wallets:manage"), h.controller.CreateWallet)
	wallets.Get("/", middleware.RequirePermission(h.roleService, "wallets:read"), h.controller.ListWallets)
	wallets.Get("/:id", middleware.RequirePermission(h.roleService, "wallets:read"), h.controller.GetWallet)
	wallets.Put("/:id", middleware.RequirePermission(h.roleService, "wallets:manage"), h.controller.UpdateWallet)
	wallets.Delete("/:id", middleware.RequirePermission(h.roleService, "wallets:manage"), h.controller.DeleteWallet)
}
