package adapter

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-sync-client/models"
)

// Structured error codes sent by the remote API.
const (
	codeAPIKeyNotFound = "api_key_not_found"
	codeInvalidAPIKey  = "invalid_api_key"
	codeResourceLocked = "resource_locked"
)

// Message fragments recognised when a response carries no code.
var (
	invalidCredentialMessages = []string{"invalid api key", "api key not found"}
	alreadyLockedMessages     = []string{"already locked", "locked by another"}
)

// classifyResponse is the only place remote failures are turned into control
// decisions. Structured codes are checked first; message substrings are a
// compatibility fallback for older API versions.
func classifyResponse(resp models.APIResponse) error {
	if resp.Status {
		return nil
	}

	switch resp.Code {
	case codeAPIKeyNotFound, codeInvalidAPIKey:
		return fmt.Errorf("%w: %s", ErrInvalidCredential, resp.Message)
	case codeResourceLocked:
		return fmt.Errorf("%w: %s", ErrAlreadyLocked, resp.Message)
	}

	message := strings.ToLower(resp.Message)
	switch {
	case containsAny(message, invalidCredentialMessages):
		return fmt.Errorf("%w: %s", ErrInvalidCredential, resp.Message)
	case containsAny(message, alreadyLockedMessages):
		return fmt.Errorf("%w: %s", ErrAlreadyLocked, resp.Message)
	}

	return &APIError{Code: resp.Code, Message: resp.Message}
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
