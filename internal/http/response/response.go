package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/platform/apierr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var statusByCode = map[apperr.Code]int{
	apperr.CodeNotFound:        http.StatusNotFound,
	apperr.CodeInvalidArgument: http.StatusBadRequest,
	apperr.CodeConflict:        http.StatusConflict,
	apperr.CodeUnauthorized:    http.StatusUnauthorized,
	apperr.CodeForbidden:       http.StatusForbidden,
	apperr.CodeInternal:        http.StatusInternalServerError,
}

// StatusOf picks the HTTP status for err. apierr values carry their own status.
func StatusOf(err error) (int, string) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status, apiErr.Code
	}
	code := apperr.CodeOf(err)
	if status, ok := statusByCode[code]; ok {
		return status, string(code)
	}
	return http.StatusInternalServerError, string(apperr.CodeInternal)
}

func RespondError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if status == http.StatusInternalServerError {
		// Persistence details stay in the logs.
		c.Error(err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Code: code})
}

func RespondStatus(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Code: code})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondSuccess is the body for deletes and other writes with nothing to return.
func RespondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
