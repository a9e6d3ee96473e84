package models

// UnlockResult is the outcome of a successful unlock. AlreadyOwned is set
// when the grant pre-existed and nothing was debited.
type UnlockResult struct {
	PromptID       string
	Granted        bool
	CoinsRemaining int64
	AlreadyOwned   bool
}
