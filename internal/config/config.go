package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Keys    APIKeys
	Ai      AIConfig
	Upload  UploadConfig
	Session SessionConfig
	Voice   VoiceConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type APIKeys struct {
	Groq     string
	Deepgram string
}

type AIConfig struct {
	LLMProvider     string // "groq" or "ollama"
	LLMModel        string
	OllamaBaseURL   string
	MaxContextChars int
	MaxTokens       int
	Temperature     float64
}

type UploadConfig struct {
	Dir           string
	MaxUploadMB   int
	MinTextLength int
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type VoiceConfig struct {
	TTSModel    string
	STTModel    string
	MaxTTSChars int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Keys: APIKeys{
			Groq:     getEnv("GROQ_API_KEY", ""),
			Deepgram: getEnv("DEEPGRAM_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "groq"),
			LLMModel:        getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxContextChars: getEnvAsInt("MAX_CONTEXT_CHARS", 3000),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 300),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.5),
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 10),
			MinTextLength: getEnvAsInt("MIN_TEXT_LENGTH", 50),
		},
		Session: SessionConfig{
			TTL:           time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			SweepInterval: time.Duration(getEnvAsInt("SESSION_SWEEP_MINUTES", 10)) * time.Minute,
		},
		Voice: VoiceConfig{
			TTSModel:    getEnv("DEEPGRAM_TTS_MODEL", "aura-asteria-en"),
			STTModel:    getEnv("DEEPGRAM_STT_MODEL", "nova-2"),
			MaxTTSChars: getEnvAsInt("MAX_TTS_CHARS", 2000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
