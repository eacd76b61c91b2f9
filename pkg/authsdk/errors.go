package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned by the service.
const (
	CodeUserExists           = "USER_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeNotOwner             = "NOT_OWNER"
	CodeOrganisationNotFound = "ORGANISATION_NOT_FOUND"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeRateLimited          = "RATE_LIMITED"
	CodeStorage              = "STORAGE_ERROR"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int      `json:"-"`
	Code       string   `json:"code"`
	Messages   []string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
}

// Message returns the first message, or "" when there is none.
func (e *APIError) Message() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

// parseErrorResponse builds an APIError from a failure body. Bodies that
// are not the failure envelope keep the status only.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
