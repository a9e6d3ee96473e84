package models

// Profile is the locally cached copy of the server profile. Coins is only
// ever overwritten with a server-reported value.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
	Coins       int64
	Role        string
}

// Session is the cached profile together with the set of owned prompts.
type Session struct {
	Profile *Profile
	Grants  map[string]struct{}
}

// Owns reports whether promptID is in the cached grant set.
func (s *Session) Owns(promptID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Grants[promptID]
	return ok
}

// NewSession builds a Session from a profile and a list of owned prompt ids.
func NewSession(p *Profile, grants []string) *Session {
	s := &Session{Profile: p, Grants: make(map[string]struct{}, len(grants))}
	for _, id := range grants {
		s.Grants[id] = struct{}{}
	}
	return s
}
