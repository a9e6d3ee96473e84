package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Owns(t *testing.T) {
	s := NewSession(&Profile{ID: "u1", Coins: 3}, []string{"p1", "p2"})

	assert.True(t, s.Owns("p1"))
	assert.True(t, s.Owns("p2"))
	assert.False(t, s.Owns("p3"))
}

func TestSession_OwnsOnNil(t *testing.T) {
	var s *Session
	assert.False(t, s.Owns("p1"))
}

func TestNewSession_EmptyGrants(t *testing.T) {
	s := NewSession(&Profile{ID: "u1"}, nil)
	assert.NotNil(t, s.Grants)
	assert.Empty(t, s.Grants)
}
