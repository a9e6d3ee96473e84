package models

import "time"

// Defaults substituted for missing catalog fields when rows are read.
const (
	DefaultAIModel  = "Gemini 3 Pro"
	DefaultCategory = "Art"
	DefaultAuthor   = "Admin"
)

// Prompt is the public catalog entry. The secret text is stored separately
// and is never part of this model.
type Prompt struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	AIModel     string
	Category    string
	Author      string
	IsTrending  bool
	RatingAvg   float64
	UnlockCount int64
	CreatedAt   time.Time
}
