package services

import (
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/google/uuid"
)

// canonicalPromptID rejects ids that cannot name a prompt before any query
// runs and returns the lowercase dashed form every store keys on. Uppercase,
// braced, urn and undashed spellings all map to the same prompt.
func canonicalPromptID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrInvalidPromptID
	}
	return u.String(), nil
}
