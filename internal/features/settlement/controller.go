package settlement

import (
	"github.com/gofiber/fiber/v2"
)

type SettlementController struct {
	Service SettlementService
}

func NewSettlementController(service SettlementService) *SettlementController {
	return &SettlementController{Service: service}
}

// RunExport godoc
// @Summary      Export terminal transactions to the settlement warehouse
// @Tags         settlement
// @Router       /api/settlement/export [post]
func (c *SettlementController) RunExport(ctx *fiber.Ctx) error {
	log, err := c.Service.ExportTerminal(ctx.Context(), "manual")
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(log)
}

func (c *SettlementController) ListLogs(ctx *fiber.Ctx) error {
	logs, err := c.Service.ListExportLogs(ctx.Context(), int64(ctx.QueryInt("limit")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
