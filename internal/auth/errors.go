package auth

import "fmt"

// AuthError means the identity provider rejected the exchange or returned a
// payload we could not use. It aborts the run.
type AuthError struct {
	StatusCode int
	Reason     string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token request failed: %d %s", e.StatusCode, e.Reason)
}
