package settings

import (
	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{Service: service}
}

func (c *SettingsController) GetApprovalConfig(ctx *fiber.Ctx) error {
	cfg, err := c.Service.GetApprovalConfig(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(cfg)
}

func (c *SettingsController) UpdateApprovalConfig(ctx *fiber.Ctx) error {
	var input ApprovalConfig
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateApprovalConfig(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Approval settings updated"})
}

func (c *SettingsController) GetGeneralConfig(ctx *fiber.Ctx) error {
	cfg, err := c.Service.GetGeneralConfig(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(cfg)
}

func (c *SettingsController) UpdateGeneralConfig(ctx *fiber.Ctx) error {
	var input GeneralConfig
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateGeneralConfig(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "General settings updated"})
}
