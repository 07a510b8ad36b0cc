package notification

import (
	"github.com/gofiber/fiber/v2"

	"go-custody/pkg/utils"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

func currentUserID(ctx *fiber.Ctx) string {
	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok && claims != nil {
		return claims.UserID
	}
	return ""
}

func (c *NotificationController) List(ctx *fiber.Ctx) error {
	notifications, err := c.Service.ListForUser(ctx.Context(), currentUserID(ctx),
		ctx.QueryBool("unread"), int64(ctx.QueryInt("limit")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(notifications)
}

func (c *NotificationController) UnreadCount(ctx *fiber.Ctx) error {
	count, err := c.Service.UnreadCount(ctx.Context(), currentUserID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"unread": count})
}

func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	if err := c.Service.MarkRead(ctx.Context(), currentUserID(ctx), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Notification marked read"})
}

func (c *NotificationController) MarkAllRead(ctx *fiber.Ctx) error {
	if err := c.Service.MarkAllRead(ctx.Context(), currentUserID(ctx)); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "All notifications marked read"})
}
