package controller

import (
	"io"

	"vox-tutor-be/internal/dto"
	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	TextToSpeech(ctx *fiber.Ctx) error
	SpeechToText(ctx *fiber.Ctx) error
}

type voiceController struct {
	voiceService service.IVoiceService
}

func NewVoiceController(voiceService service.IVoiceService) IVoiceController {
	return &voiceController{
		voiceService: voiceService,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice")
	h.Post("/tts", c.TextToSpeech)
	h.Post("/stt", c.SpeechToText)
}

// TextToSpeech forwards the synthesized audio to the client as it
// arrives; the full clip is never buffered server-side.
func (c *voiceController) TextToSpeech(ctx *fiber.Ctx) error {
	var req dto.SynthesizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidInput("invalid JSON request")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	stream, err := c.voiceService.Synthesize(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "audio/wav")
	return ctx.SendStream(stream)
}

func (c *voiceController) SpeechToText(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return serverutils.ErrInvalidInput("No audio file uploaded.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.voiceService.Transcribe(ctx.Context(), audio, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success":    true,
		"transcript": res.Transcript,
	})
}
