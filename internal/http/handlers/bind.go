package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes and validates a JSON body against the binding tags on
// out. On violation it short-circuits with a 422 carrying msg before any
// controller logic runs.
func BindJSON(ctx *gin.Context, out interface{}, msg string) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		FailInvalid(ctx, invalidInputMessage(msg, err))
		return false
	}

	return true
}

// BindForm is the multipart/form counterpart used by place creation and
// signup.
func BindForm(ctx *gin.Context, out interface{}, msg string) bool {
	err := ctx.ShouldBind(out)

	if err != nil {
		FailInvalid(ctx, invalidInputMessage(msg, err))
		return false
	}

	return true
}

func invalidInputMessage(msg string, err error) string {
	var validatorErrs validator.ValidationErrors

	if !errors.As(err, &validatorErrs) {
		return msg
	}

	fields := make([]string, 0, len(validatorErrs))

	for _, fieldErr := range validatorErrs {
		fields = append(fields, strings.ToLower(fieldErr.Field())+" "+validationMessage(fieldErr.Tag(), fieldErr.Param()))
	}

	return msg + " (" + strings.Join(fields, "; ") + ")"
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
