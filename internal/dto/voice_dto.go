package dto

type SynthesizeRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}
