package dto

type AskRequest struct {
	Question  string `json:"question" validate:"required,max=500"`
	SessionId string `json:"session_id" validate:"required"`
	Language  string `json:"language"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}
