package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	featuredomain "github.com/railzwaylabs/featuregate/internal/featureflag/domain"
)

type apiError struct {
	status  int
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Message
}

func invalidRequestError() *apiError {
	return &apiError{status: http.StatusBadRequest, Type: "invalid_request", Message: "invalid request"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{status: http.StatusBadRequest, Type: "invalid_request", Code: code, Message: field + ": " + message}
}

// AbortWithError writes the error envelope. Anything that is not a known
// client error is a lookup failure: the answer is unknown, so the handler
// must not fall back to reporting the feature as disabled.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, featuredomain.ErrInvalidFlagKey):
		apiErr = newValidationError("slug", "invalid_flag_key", "invalid flag key")
	case errors.Is(err, featuredomain.ErrUnknownFlag):
		apiErr = &apiError{status: http.StatusNotFound, Type: "not_found", Code: "unknown_flag", Message: "unknown flag"}
	case errors.Is(err, featuredomain.ErrInvalidUserID):
		apiErr = newValidationError("user_id", "invalid_user_id", "invalid user id")
	case errors.Is(err, featuredomain.ErrInvalidTeamID):
		apiErr = newValidationError("team_id", "invalid_team_id", "invalid team id")
	default:
		apiErr = &apiError{status: http.StatusServiceUnavailable, Type: "lookup_failed", Message: "feature lookup failed"}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.status, gin.H{"error": apiErr})
}
