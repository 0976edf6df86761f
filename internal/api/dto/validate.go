package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req against its validate tags and returns a 400 DomainError
// listing each offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	fields := make(map[string]any, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", fe.Field())
		case "email":
			msg = fmt.Sprintf("field %s must be a valid email address", fe.Field())
		case "max":
			msg = fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param())
		default:
			msg = fmt.Sprintf("field %s is not valid", fe.Field())
		}
		fields[fe.Field()] = fe.ActualTag()
		msgs = append(msgs, msg)
	}
	return apperrors.NewValidationError(strings.Join(msgs, ", "), map[string]any{"fields": fields})
}
