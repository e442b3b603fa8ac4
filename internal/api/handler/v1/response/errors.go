package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

// Err is the error body of every failed request.
type Err struct {
	HTTPStatusCode int               `json:"-"`
	Err            error             `json:"-"`
	StatusText     string            `json:"status"`
	Message        string            `json:"error"`
	Details        map[string]string `json:"details,omitempty"`
}

func (e *Err) Error() string {
	return e.Message
}

// RenderErr aborts the request with e. Server errors are logged with the request id and
// their message is not exposed.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.StatusText,
			zap.String("requestID", requestid.Get(ctx)),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return ErrValidation(fieldsOf(verrs))
	}

	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Err:            err,
		StatusText:     "Bad request.",
		Message:        err.Error(),
	}
}

// ErrValidation reports invalid fields, keyed by their JSON name.
func ErrValidation(fields map[string]string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		Message:        "validation failed",
		Details:        fields,
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Err:            err,
		StatusText:     "Unauthorized.",
		Message:        err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Err:            err,
		StatusText:     "Unauthorized.",
		Message:        "wrong email or password",
	}
}

// ErrPermissionDenied hides the reason from the caller.
func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Err:            err,
		StatusText:     "Forbidden.",
		Message:        "forbidden",
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		Message:        fmt.Sprintf("%v with %v = %v not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Err:            err,
		StatusText:     "Conflict.",
		Message:        err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Err:            err,
		StatusText:     "Internal server error.",
		Message:        "internal server error",
	}
}

func fieldsOf(verrs validation.Errors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for k, v := range verrs {
		if v != nil {
			fields[k] = v.Error()
		}
	}

	return fields
}
