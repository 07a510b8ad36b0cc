package workflow

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidRule), errors.Is(err, ErrInvalidWorkflow):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateWorkflow godoc
// @Summary      Create approval workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        input body ApprovalWorkflow true "Workflow Input"
// @Success      201  {object} ApprovalWorkflow
// @Router       /api/workflows [post]
func (c *WorkflowController) CreateWorkflow(ctx *fiber.Ctx) error {
	var input ApprovalWorkflow
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateWorkflow(ctx.Context(), &input)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (c *WorkflowController) ListWorkflows(ctx *fiber.Ctx) error {
	workflows, err := c.Service.ListWorkflows(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(workflows)
}

func (c *WorkflowController) GetWorkflow(ctx *fiber.Ctx) error {
	w, err := c.Service.GetWorkflow(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(w)
}

func (c *WorkflowController) UpdateWorkflow(ctx *fiber.Ctx) error {
	var input ApprovalWorkflow
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWorkflow(ctx.Context(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Workflow updated successfully"})
}

// ToggleWorkflow godoc
// @Summary      Activate or deactivate a workflow
// @Tags         workflows
// @Param        id path string true "Workflow ID"
// @Router       /api/workflows/{id}/active [patch]
func (c *WorkflowController) ToggleWorkflow(ctx *fiber.Ctx) error {
	var input struct {
		Active bool `json:"active"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.ToggleWorkflow(ctx.Context(), ctx.Params("id"), input.Active); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Workflow updated successfully", "active": input.Active})
}

func (c *WorkflowController) DeleteWorkflow(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteWorkflow(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Workflow deleted successfully"})
}
