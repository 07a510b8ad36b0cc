package wallet

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

type WalletController struct {
	Service WalletService
}

func NewWalletController(service WalletService) *WalletController {
	return &WalletController{Service: service}
}

// CreateWallet godoc
// @Summary      Create wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        input body Wallet true "Wallet Input"
// @Success      201  {object} Wallet
// @Router       /api/wallets [post]
func (c *WalletController) CreateWallet(ctx *fiber.Ctx) error {
	var input Wallet
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateWallet(ctx.Context(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (c *WalletController) ListWallets(ctx *fiber.Ctx) error {
	wallets, err := c.Service.ListWallets(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(wallets)
}

func (c *WalletController) GetWallet(ctx *fiber.Ctx) error {
	w, err := c.Service.GetWallet(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(w)
}

func (c *WalletController) UpdateWallet(ctx *fiber.Ctx) error {
	var input bson.M
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWallet(ctx.Context(), ctx.Params("id"), input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Wallet updated successfully"})
}

func (c *WalletController) DeleteWallet(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteWallet(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Wallet deleted successfully"})
}
