package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/api/types/errors"
)

// ErrorHandler normalizes every error thrown by a handler into the uniform
// {"error": message} body.
//
// The full error is logged before anything is written, whatever message
// ends up in the response; raw upstream text meant for operators never
// disappears from the log even when a sanitized message is surfaced.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		c.Logger().Error(err)

		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := err.Error()

		ge := new(apierr.GatewayError)
		he := new(echo.HTTPError)
		if errors.As(err, &ge) {
			if ge.Status != 0 {
				status = ge.Status
			}
			message = resolveMessage(ge)
		} else if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
		}

		if werr := c.JSON(status, apierr.ErrorResponse{Error: message}); werr != nil {
			e.Logger.Error(werr)
		}
	}
}

// resolveMessage picks what the caller sees. A message wrapping an upstream
// JSON error body surfaces that body's detail; otherwise the user-facing
// override wins when set; otherwise the raw message goes out as-is.
func resolveMessage(ge *apierr.GatewayError) string {
	wrapped := struct {
		Detail *string `json:"detail"`
	}{}
	if json.Unmarshal([]byte(ge.Message), &wrapped) == nil && wrapped.Detail != nil {
		return *wrapped.Detail
	}
	if ge.UserMessage != "" {
		return ge.UserMessage
	}
	return ge.Message
}
