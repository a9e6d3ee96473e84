package api

import "time"

type PingResponse struct {
	Status string `json:"status"`
}

type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Coins       int64  `json:"coins"`
	Role        string `json:"role"`
}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// Prompt carries public metadata only; secret text travels in SecretResponse.
type Prompt struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	AIModel     string    `json:"ai_model"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	IsTrending  bool      `json:"is_trending"`
	RatingAvg   float64   `json:"rating_avg"`
	UnlockCount int64     `json:"unlock_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListPromptsResponse struct {
	Prompts []*Prompt `json:"prompts"`
}

type PromptRequest struct {
	PromptID string `json:"prompt_id"`
}

func (r *PromptRequest) GetPromptID() string {
	if r == nil {
		return ""
	}
	return r.PromptID
}

type PromptResponse struct {
	Prompt *Prompt `json:"prompt"`
}

type UnlockResponse struct {
	Unlocked     bool  `json:"unlocked"`
	CoinsLeft    int64 `json:"coins_left"`
	AlreadyOwned bool  `json:"already_owned"`
}

type SecretResponse struct {
	SecretText string `json:"secret_text"`
}

type UnlockedResponse struct {
	PromptIDs []string `json:"prompt_ids"`
}
