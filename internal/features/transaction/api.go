package transaction

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TransactionApi struct {
	controller  *TransactionController
	roleService middleware.RoleService
	config      *config.Config
}

func NewTransactionApi(controller *TransactionController, roleService middleware.RoleService, config *config.Config) *TransactionApi {
	return &TransactionApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *TransactionApi) Setup(app *fiber.App) {
	txs := app.Group("/api/transactions", middleware.AuthMiddleware(h.config.SkipAuth))

	txs.Post("/", middleware.RequirePermission(h.roleService, "transactions:create"), h.controller.CreateTransaction)
	txs.Get("/", middleware.RequirePermission(h.roleService, "transactions:read"), h.controller.ListTransactions)
	txs.Get("/:id", middleware.RequirePermission(h.roleService, "transactions:read"), h.controller.GetTransaction)
	txs.Post("/:id/complete", middleware.RequirePermission(h.roleService, "transactions:settle"), h.controller.CompleteTransaction)
	txs.Post("/:id/fail", middleware.RequirePermission(h.roleService, "transactions:settle"), h.controller.FailTransaction)
}
