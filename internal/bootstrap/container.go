package bootstrap

import (
	"log"
	"time"

	"vox-tutor-be/internal/config"
	"vox-tutor-be/internal/controller"
	"vox-tutor-be/internal/pkg/logger"
	"vox-tutor-be/internal/repository/memory"
	"vox-tutor-be/internal/service"
	"vox-tutor-be/pkg/llm"
	"vox-tutor-be/pkg/llm/factory"
	"vox-tutor-be/pkg/pdftext"
	"vox-tutor-be/pkg/voice/deepgram"
)

type Container struct {
	Logger            logger.ILogger
	SessionRepository *memory.SessionRepository

	// Controllers
	PdfController    controller.IPdfController
	AiController     controller.IAiController
	VoiceController  controller.IVoiceController
	HealthController *controller.HealthController
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.SweepInterval, sysLogger)
	extractor := pdftext.NewExtractor()

	// 2. Upstream clients
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.Groq,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Panicf("Unable to initialize LLM provider: %v", err)
	}
	llmProvider = llm.WithRetry(llmProvider, 3, 1*time.Second)

	deepgramClient := deepgram.NewClient(cfg.Keys.Deepgram, cfg.Voice.TTSModel, cfg.Voice.STTModel)
	if !deepgramClient.Enabled() {
		sysLogger.Warn("voice", "DEEPGRAM_API_KEY missing, voice features are disabled", nil)
	}

	// 3. Services
	documentService := service.NewDocumentService(
		sessionRepo,
		extractor,
		cfg.Upload.Dir,
		cfg.Upload.MaxUploadMB,
		cfg.Upload.MinTextLength,
		sysLogger,
	)
	aiService := service.NewAiService(
		sessionRepo,
		llmProvider,
		cfg.Ai.MaxContextChars,
		cfg.Ai.MaxTokens,
		cfg.Ai.Temperature,
		sysLogger,
	)
	voiceService := service.NewVoiceService(deepgramClient, cfg.Voice.MaxTTSChars, sysLogger)

	return &Container{
		Logger:            sysLogger,
		SessionRepository: sessionRepo,

		PdfController:    controller.NewPdfController(documentService),
		AiController:     controller.NewAiController(aiService),
		VoiceController:  controller.NewVoiceController(voiceService),
		HealthController: controller.NewHealthController(),
	}
}
