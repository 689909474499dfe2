package dto

import (
	"strings"

	"rapidscribe/internal/api/errors"
)

// AssistRequest is the body of POST /api/v1/assist.
type AssistRequest struct {
	Message      string `json:"message" binding:"required"`
	AudioPath    string `json:"audio_path,omitempty"`
	Model        string `json:"model,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Format       string `json:"format,omitempty" binding:"omitempty,oneof=json"`
}

// Validate covers what binding tags cannot: whitespace-only messages, and
// the format field when the request arrives via query parameters.
func (r *AssistRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Message) == "" {
		fields["message"] = "is required"
	}
	if r.Format != "" && r.Format != "json" {
		fields["format"] = "must be one of the allowed values"
	}

	if len(fields) > 0 {
		return errors.NewValidationError("invalid request", fields)
	}
	return nil
}

// AssistResponse is the assistant's reply plus what went into it.
type AssistResponse struct {
	Reply      string                 `json:"reply"`
	Transcript string                 `json:"transcript,omitempty"`
	ModelUsed  string                 `json:"model_used,omitempty"`
	JSON       map[string]interface{} `json:"json,omitempty"`
	ExchangeID int                    `json:"exchange_id,omitempty"`
}
