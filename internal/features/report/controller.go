package report

import (
	"github.com/gofiber/fiber/v2"

	"go-custody/internal/features/transaction"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

func sendXLSX(ctx *fiber.Ctx, data []byte, filename string) error {
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}

// ExportTransactions godoc
// @Summary      Export transactions as XLSX
// @Tags         reports
// @Produce      application/octet-stream
// @Router       /api/reports/transactions [get]
func (c *ReportController) ExportTransactions(ctx *fiber.Ctx) error {
	filter := transaction.ListFilter{
		Status:   transaction.Status(ctx.Query("status")),
		WalletID: ctx.Query("wallet_id"),
		Limit:    int64(ctx.QueryInt("limit")),
	}

	data, filename, err := c.Service.ExportTransactions(ctx.Context(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendXLSX(ctx, data, filename)
}

func (c *ReportController) ExportAuditLogs(ctx *fiber.Ctx) error {
	filters := map[string]interface{}{}
	if module := ctx.Query("module"); module != "" {
		filters["module"] = module
	}
	if action := ctx.Query("action"); action != "" {
		filters["action"] = action
	}

	data, filename, err := c.Service.ExportAuditLogs(ctx.Context(), filters, int64(ctx.QueryInt("limit")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendXLSX(ctx, data, filename)
}
