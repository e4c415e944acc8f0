package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vox-tutor-be/internal/dto"
	"vox-tutor-be/internal/pkg/logger"
	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/internal/repository/memory"
	"vox-tutor-be/pkg/llm"

	"github.com/pkoukk/tiktoken-go"
)

const maxQuestionLength = 500

const tutorPromptTemplate = `You are "Vox", an expert AI tutor.

[STRICT CONTEXT START]
%s
[STRICT CONTEXT END]

INSTRUCTIONS:
1. Answer the user's question based strictly on the context above.
2. If the answer isn't in the context, define the term using general knowledge but mention it's outside the book.
3. Use simple analogies.
4. Language: %s
5. Output format: Plain text, no markdown.`

type IAiService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type aiService struct {
	sessions        memory.ISessionRepository
	provider        llm.LLMProvider
	maxContextChars int
	maxTokens       int
	temperature     float64
	log             logger.ILogger
}

func NewAiService(
	sessions memory.ISessionRepository,
	provider llm.LLMProvider,
	maxContextChars int,
	maxTokens int,
	temperature float64,
	log logger.ILogger,
) IAiService {
	return &aiService{
		sessions:        sessions,
		provider:        provider,
		maxContextChars: maxContextChars,
		maxTokens:       maxTokens,
		temperature:     temperature,
		log:             log,
	}
}

func (s *aiService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" || utf8.RuneCountInString(req.Question) > maxQuestionLength {
		return nil, serverutils.ErrInvalidInput(fmt.Sprintf("Invalid question (max %d characters).", maxQuestionLength))
	}

	session, found := s.sessions.Get(req.SessionId)
	if !found {
		return nil, serverutils.ErrSessionExpired()
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	// Hard cap on context size, cut backed up to a rune boundary so a
	// multibyte character is never split. Angle brackets are stripped
	// before templating.
	safeContext := session.Text
	if len(safeContext) > s.maxContextChars {
		cut := s.maxContextChars
		for cut > 0 && !utf8.RuneStart(safeContext[cut]) {
			cut--
		}
		safeContext = safeContext[:cut]
	}
	safeContext = strings.NewReplacer("<", "", ">", "").Replace(safeContext)

	systemPrompt := fmt.Sprintf(tutorPromptTemplate, safeContext, language)

	s.logTokenCount(systemPrompt + question)

	answer, err := s.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		llm.WithTemperature(s.temperature),
		llm.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		s.log.Error("ai", "llm request failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return nil, serverutils.ErrUpstreamUnavailable("Failed to generate AI response")
	}

	if strings.TrimSpace(answer) == "" {
		answer = "I couldn't generate an answer."
	}

	return &dto.AskResponse{Answer: answer}, nil
}

func (s *aiService) logTokenCount(prompt string) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return
	}
	tokens := enc.Encode(prompt, nil, nil)
	s.log.Debug("ai", "prompt size", map[string]interface{}{
		"tokens": len(tokens),
		"chars":  len(prompt),
	})
}
