package controller

import (
	"vox-tutor-be/internal/dto"
	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAiService
}

func NewAiController(aiService service.IAiService) IAiController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Post("/ask", c.Ask)
}

func (c *aiController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidInput("invalid JSON request")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
