package approval

import (
	"go-custody/internal/config"
	"go-custody/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller  *ApprovalController
	roleService middleware.RoleService
	config      *config.Config
}

func NewApprovalApi(controller *ApprovalController, roleService middleware.RoleService, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	approvals := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	approvals.Post("/:id/approve", middleware.RequirePermission(h.roleService, "approvals:act"), h.controller.Approve)
	approvals.Post("/:id/reject", middleware.RequirePermission(h.roleService, "approvals:act"), h.controller.Reject)
	approvals.Get("/:id/ledger", middleware.RequirePermission(h.roleService, "transactions:read"), h.controller.GetLedger)
}
