package validator_test

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"ofcoz/shared/failure"
	"ofcoz/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guestRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Guests   int    `json:"guests"   validate:"gte=1,lte=20"`
	Category string `json:"category" validate:"oneof=user admin"`
}

type slotRequest struct {
	Date  string `json:"date"       validate:"required,dateonly"`
	Start string `json:"start_time" validate:"required,clock"`
	End   string `json:"end_time"   validate:"required,clock"`
}

func (s *slotRequest) Validate() error {
	if s.End <= s.Start {
		return errors.New("end_time must be after start_time")
	}

	return nil
}

type receiptRequest struct {
	File *multipart.FileHeader `validate:"required,mimetypes=image/jpeg image/png application/pdf,maxfilesize=5"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    guestRequest
		message string
	}{
		{
			name: "valid",
			data: guestRequest{Name: "Mochi", Email: "mochi@ofcoz.test", Guests: 2, Category: "user"},
		},
		{
			name:    "missing name uses json field name",
			data:    guestRequest{Email: "mochi@ofcoz.test", Guests: 2, Category: "user"},
			message: "name is required",
		},
		{
			name:    "invalid email",
			data:    guestRequest{Name: "Mochi", Email: "mochi", Guests: 2, Category: "user"},
			message: "email must be a valid email address",
		},
		{
			name:    "guests out of range",
			data:    guestRequest{Name: "Mochi", Email: "mochi@ofcoz.test", Guests: 0, Category: "user"},
			message: "guests must be greater than or equal to 1",
		},
		{
			name:    "invalid category",
			data:    guestRequest{Name: "Mochi", Email: "mochi@ofcoz.test", Guests: 1, Category: "cat"},
			message: "category must be one of user admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, 400, failure.GetCode(err))
			assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
		})
	}
}

func TestValidateLayoutsAndValidatable(t *testing.T) {
	err := validator.ValidateStruct(&slotRequest{Date: "2025-03-01", Start: "10:00", End: "12:30"})
	assert.NoError(t, err)

	err = validator.ValidateStruct(&slotRequest{Date: "01/03/2025", Start: "10:00", End: "12:30"})
	assert.EqualError(t, err, "date must be a date in YYYY-MM-DD format")

	err = validator.ValidateStruct(&slotRequest{Date: "2025-03-01", Start: "25:00", End: "12:30"})
	assert.EqualError(t, err, "start_time must be a time in HH:MM format")

	err = validator.ValidateStruct(&slotRequest{Date: "2025-03-01", Start: "12:00", End: "11:00"})
	require.Error(t, err)
	assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
}

func TestValidateFileHeader(t *testing.T) {
	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "receipt",
			Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
			Size:     size,
		}
	}

	assert.NoError(t, validator.ValidateStruct(&receiptRequest{File: header("image/png", 1024)}))
	assert.Error(t, validator.ValidateStruct(&receiptRequest{File: header("image/gif", 1024)}))
	assert.Error(t, validator.ValidateStruct(&receiptRequest{File: header("application/pdf", 6*1024*1024)}))
	assert.Error(t, validator.ValidateStruct(&receiptRequest{}))
}

func TestValidate(t *testing.T) {
	var data guestRequest

	err := validator.Validate(strings.NewReader(`{"name":"Mochi","email":"mochi@ofcoz.test","guests":1,"category":"admin"}`), &data)
	require.NoError(t, err)
	assert.Equal(t, "Mochi", data.Name)

	err = validator.Validate(strings.NewReader(`{"name":`), &data)
	require.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
	assert.Empty(t, failure.GetReason(err))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-02-28", "dateonly"))
	assert.Error(t, validator.ValidateVar("2025-02-30", "dateonly"))
	assert.NoError(t, validator.ValidateVar("data:image/png;base64,AAAA", "mimetypes=image/png"))
	assert.Error(t, validator.ValidateVar("not-a-data-uri", "mimetypes=image/png"))
}

func TestValidateVar_LengthMessages(t *testing.T) {
	assert.EqualError(t, validator.ValidateVar("short", "min=8"), "must be at least 8 characters")
	assert.EqualError(t, validator.ValidateVar(30, "max=20"), "must be less than or equal to 20")
}
