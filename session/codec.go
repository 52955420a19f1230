package session

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a session to its persisted JSON shape.
func Encode(s *Session) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return data, nil
}

// Decode parses a persisted record. Malformed JSON and records without an
// email both decode to [ErrMalformed], never to a panic or a partial
// session. Unknown fields are ignored for forward compatibility with
// records written by newer deployments.
func Decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
