package session

// Session is the sole persisted identity record. Email is the authenticated
// principal; Token is the opaque bearer credential issued after OTP
// verification; Role is "admin" or "user" and defaults to "user" when absent.
//
// Session instances are value objects; stores copy on Save and Read so a
// caller can never mutate stored state through a returned pointer.
type Session struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Token string `json:"token,omitempty"`
}

// Validate reports whether the record is usable. A session without an email
// has no principal and is treated as malformed by every store.
func (s *Session) Validate() error {
	if s == nil || s.Email == "" {
		return ErrMalformed
	}
	return nil
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
