package models

import "time"

// Prompt is the public catalog view. Owned is filled from the local cache.
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
	Owned       bool
}

// UnlockOutcome is what the server reports for an unlock request.
type UnlockOutcome struct {
	Unlocked     bool
	AlreadyOwned bool
	CoinsLeft    int64
}

// Reveal is the result of an unlock as shown to the user. Available is
// false when the prompt is owned but its text could not be fetched.
// CacheStale is set when the server granted the unlock but the local cache
// could not record it.
type Reveal struct {
	PromptID     string
	CoinsLeft    int64
	Secret       string
	Available    bool
	AlreadyOwned bool
	CacheStale   bool
}
