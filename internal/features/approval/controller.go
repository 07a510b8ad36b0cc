package approval

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/transaction"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUnauthorizedApprover):
		return fiber.StatusForbidden
	case errors.Is(err, ErrDuplicateApprover), errors.Is(err, ErrTransactionClosed):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

type decisionInput struct {
	Comment string `json:"comment"`
}

// Approve godoc
// @Summary      Approve a pending transaction
// @Tags         approvals
// @Param        id path string true "Transaction ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/approvals/{id}/approve [post]
func (c *ApprovalController) Approve(ctx *fiber.Ctx) error {
	return c.submit(ctx, common_models.DecisionApproved)
}

// Reject godoc
// @Summary      Reject a pending transaction
// @Tags         approvals
// @Param        id path string true "Transaction ID"
// @Success      200 {object} map[string]interface{}
// @Router       /api/approvals/{id}/reject [post]
func (c *ApprovalController) Reject(ctx *fiber.Ctx) error {
	return c.submit(ctx, common_models.DecisionRejected)
}

func (c *ApprovalController) submit(ctx *fiber.Ctx, decision common_models.Decision) error {
	var input decisionInput
	// Comment is optional
	_ = ctx.BodyParser(&input)

	newStatus, err := c.Service.SubmitApproval(ctx.Context(), ctx.Params("id"), decision, input.Comment)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": newStatus})
}

func (c *ApprovalController) GetLedger(ctx *fiber.Ctx) error {
	view, err := c.Service.GetLedger(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(view)
}
