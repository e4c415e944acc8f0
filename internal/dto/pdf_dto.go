package dto

import "time"

type UploadPdfResponse struct {
	SessionId  string    `json:"session_id"`
	SourceName string    `json:"source_name"`
	Pages      int       `json:"pages"`
	TextLength int       `json:"text_length"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ShowPdfResponse struct {
	SessionId  string    `json:"session_id"`
	SourceName string    `json:"source_name"`
	Pages      int       `json:"pages"`
	TextLength int       `json:"text_length"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
