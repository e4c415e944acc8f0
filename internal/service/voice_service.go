package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"vox-tutor-be/internal/dto"
	"vox-tutor-be/internal/pkg/logger"
	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/pkg/voice/deepgram"
)

type IVoiceService interface {
	Synthesize(ctx context.Context, req *dto.SynthesizeRequest) (io.ReadCloser, error)
	Transcribe(ctx context.Context, audio []byte, contentType string) (*dto.TranscribeResponse, error)
}

type voiceService struct {
	client      deepgram.IClient
	maxTTSChars int
	log         logger.ILogger
}

func NewVoiceService(client deepgram.IClient, maxTTSChars int, log logger.ILogger) IVoiceService {
	return &voiceService{
		client:      client,
		maxTTSChars: maxTTSChars,
		log:         log,
	}
}

// Synthesize validates the text before any provider call and returns
// the audio stream for chunked forwarding.
func (s *voiceService) Synthesize(ctx context.Context, req *dto.SynthesizeRequest) (io.ReadCloser, error) {
	if strings.TrimSpace(req.Text) == "" || len(req.Text) > s.maxTTSChars {
		return nil, serverutils.ErrInvalidInput(fmt.Sprintf("Text is required and must be under %d chars.", s.maxTTSChars))
	}

	stream, err := s.client.Synthesize(ctx, req.Text, req.Language)
	if err != nil {
		s.log.Error("voice", "tts request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, serverutils.ErrUpstreamUnavailable("Failed to generate audio.")
	}
	return stream, nil
}

// Transcribe never fails on silence: an empty transcript comes back as
// an empty string.
func (s *voiceService) Transcribe(ctx context.Context, audio []byte, contentType string) (*dto.TranscribeResponse, error) {
	if len(audio) == 0 {
		return nil, serverutils.ErrInvalidInput("No audio file uploaded.")
	}

	transcript, err := s.client.Transcribe(ctx, audio, contentType)
	if err != nil {
		s.log.Error("voice", "stt request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, serverutils.ErrUpstreamUnavailable("Failed to transcribe audio.")
	}
	return &dto.TranscribeResponse{Transcript: transcript}, nil
}
