package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

type describe func(fe val.FieldError) string

func bound(numeric, text string) describe {
	return func(fe val.FieldError) string {
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(text, fe.Field(), fe.Param())
		}

		return fmt.Sprintf(numeric, fe.Field(), fe.Param())
	}
}

func fixed(format string) describe {
	return func(fe val.FieldError) string {
		return fmt.Sprintf(format, fe.Field())
	}
}

func withParam(format string) describe {
	return func(fe val.FieldError) string {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
}

// Tags without an entry fall back to the library's own message.
var describers = map[string]describe{
	"required":    fixed("%s is required"),
	"email":       fixed("%s must be a valid email address"),
	"uuid":        fixed("%s must be a valid UUID"),
	"dateonly":    fixed("%s must be a date in YYYY-MM-DD format"),
	"clock":       fixed("%s must be a time in HH:MM format"),
	"gt":          withParam("%s must be greater than %s"),
	"gte":         withParam("%s must be greater than or equal to %s"),
	"lte":         withParam("%s must be less than or equal to %s"),
	"oneof":       withParam("%s must be one of %s"),
	"mimetypes":   withParam("%s must be one of %s"),
	"maxfilesize": withParam("%s must not exceed %s MB"),
	"min":         bound("%s must be greater than or equal to %s", "%s must be at least %s characters"),
	"max":         bound("%s must be less than or equal to %s", "%s must be at most %s characters"),
}

// message reports the first failing field only. ValidateVar errors have no field name, hence the trim.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		if d, ok := describers[fe.Tag()]; ok {
			return strings.TrimSpace(d(fe))
		}
	}

	return fieldErrors.Error()
}
