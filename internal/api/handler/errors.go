package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// respondError writes the business error carried by err, or 500
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		response.Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	_ = c.Error(err)
	response.InternalError(c)
}

// respondBindError 400 with one entry per failed field
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request", err.Error())
		return
	}

	fields := make([]dto.FieldError, 0, len(ve))
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msg := fieldMessage(fe)
		fields = append(fields, dto.FieldError{Field: fe.Field(), Message: msg})
		msgs = append(msgs, fe.Field()+": "+msg)
	}
	c.JSON(http.StatusBadRequest, response.Response{
		Code:    10001,
		Message: "validation failed",
		Data:    fields,
		Details: strings.Join(msgs, "; "),
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "sortorder":
		return "must be asc or desc"
	case "visibility":
		return "must be public or private"
	default:
		return "is invalid"
	}
}
