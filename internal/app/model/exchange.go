package model

import "time"

// Exchange is one assistant round trip: a user message, the transcript of the
// referenced audio file, and the model's reply.
type Exchange struct {
	ID         int       `json:"id"`
	Message    string    `json:"message"`
	AudioPath  string    `json:"audio_path,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Reply      string    `json:"reply"`
	ModelName  string    `json:"model_name"`
	CreatedAt  time.Time `json:"created_at"`
}
