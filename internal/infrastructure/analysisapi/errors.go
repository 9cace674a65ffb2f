package analysisapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrMalformedResponse  = errors.New("malformed response from analysis backend")
	ErrNotFound           = errors.New("resource not found on analysis backend")
)

// StatusError is a non-2xx answer from the backend with the most specific
// message its body carried.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis backend status=%d: %s", e.Status, e.Message)
}

const maxRawMessage = 200

// ErrorMessage picks message, mensagem or error from a JSON body, then a
// short raw body, then a generic text with the status.
func ErrorMessage(status int, body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"message", "mensagem", "error"} {
			if s, ok := parsed[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	raw := strings.TrimSpace(string(body))
	if raw != "" && len(raw) < maxRawMessage {
		return raw
	}
	return fmt.Sprintf("internal error (%d)", status)
}

func malformed(path string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, path, fmt.Sprintf(format, args...))
}
