package controller

import (
	"io"

	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPdfController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type pdfController struct {
	documentService service.IDocumentService
}

func NewPdfController(documentService service.IDocumentService) IPdfController {
	return &pdfController{
		documentService: documentService,
	}
}

func (c *pdfController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pdf")
	h.Post("/upload", c.Upload)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *pdfController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.ErrInvalidInput("PDF file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.documentService.Ingest(
		ctx.Context(),
		data,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
	)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Pdf uploaded and processed successfully", res))
}

func (c *pdfController) Show(ctx *fiber.Ctx) error {
	res, err := c.documentService.Show(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show pdf", res))
}

func (c *pdfController) Delete(ctx *fiber.Ctx) error {
	c.documentService.Delete(ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse[any]("Pdf deleted successfully", nil))
}
