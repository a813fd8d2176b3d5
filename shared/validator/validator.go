package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// Validatable is implemented by request types that carry cross-field rules.
type Validatable interface {
	Validate() error
}

// dataURIContentType returns the media type of a "data:<type>;base64," string.
func dataURIContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, ";base64,")

	if !strings.HasPrefix(file, "data:") || end < start {
		return ""
	}

	return file[start:end]
}

func fileHeader(field val.FieldLevel) (*multipart.FileHeader, bool) {
	switch v := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return &v, true
	case *multipart.FileHeader:
		return v, v != nil
	}

	return nil, false
}

func registerMimetypeValidation(field val.FieldLevel) bool {
	var contentType string

	if file, ok := fileHeader(field); ok {
		contentType = file.Header.Get(constant.RequestHeaderContentType)
	} else if str, ok := field.Field().Interface().(string); ok {
		contentType = dataURIContentType(str)
	}

	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	var fileSize int64

	if file, ok := fileHeader(field); ok {
		fileSize = file.Size
	} else if str, ok := field.Field().Interface().(string); ok {
		fileSize = int64(len(str))
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0

	return float64(fileSize) <= maxSizeMB*bytesConversion*bytesConversion
}

func registerLayoutValidation(layout string) val.Func {
	return func(field val.FieldLevel) bool {
		_, err := time.Parse(layout, field.Field().String())

		return err == nil
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	validations := map[string]val.Func{
		"empty":       func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"dateonly":    registerLayoutValidation(constant.DateOnlyLayout),
		"clock":       registerLayoutValidation(constant.ClockLayout),
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct runs tag validation and then the Validate method when data implements Validatable.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.Validation(message(err)) //nolint:wrapcheck
	}

	if v, ok := any(data).(Validatable); ok {
		if err := v.Validate(); err != nil {
			if failure.GetReason(err) != "" {
				return err
			}

			return failure.Validation(err.Error()) //nolint:wrapcheck
		}
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		return failure.Validation(message(err)) //nolint:wrapcheck
	}

	return nil
}
