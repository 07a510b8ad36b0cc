package transaction

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"go-custody/internal/features/wallet"
)

type TransactionController struct {
	Service TransactionService
}

func NewTransactionController(service TransactionService) *TransactionController {
	return &TransactionController{Service: service}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}

// CreateTransaction godoc
// @Summary      Create transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        input body CreateInput true "Transaction Input"
// @Success      201  {object} Transaction
// @Router       /api/transactions [post]
func (c *TransactionController) CreateTransaction(ctx *fiber.Ctx) error {
	var input CreateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateTransaction(ctx.Context(), input)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (c *TransactionController) ListTransactions(ctx *fiber.Ctx) error {
	filter := ListFilter{
		Status:    Status(ctx.Query("status")),
		WalletID:  ctx.Query("wallet_id"),
		CreatedBy: ctx.Query("created_by"),
		Limit:     int64(ctx.QueryInt("limit")),
	}

	txs, err := c.Service.ListTransactions(ctx.Context(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(txs)
}

func (c *TransactionController) GetTransaction(ctx *fiber.Ctx) error {
	tx, err := c.Service.GetTransaction(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tx)
}

func (c *TransactionController) CompleteTransaction(ctx *fiber.Ctx) error {
	if err := c.Service.CompleteTransaction(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Transaction completed"})
}

func (c *TransactionController) FailTransaction(ctx *fiber.Ctx) error {
	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional for fail
	_ = ctx.BodyParser(&input)

	if err := c.Service.FailTransaction(ctx.Context(), ctx.Params("id"), input.Reason); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Transaction failed"})
}
