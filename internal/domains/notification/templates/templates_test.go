package templates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/internal/domains/notification/model/dto"
	"ofcoz/internal/domains/notification/templates"
	"ofcoz/shared/constant"
	"ofcoz/shared/timezone"
)

type data struct {
	dto.NotificationRequest
	RoomName    string
	FrontendURL string
}

func sample() data {
	start := time.Date(2026, 10, 15, 10, 0, 0, 0, timezone.GetLocation())
	reason := "Plans changed"
	expiry := start.AddDate(0, 3, 0)

	return data{
		NotificationRequest: dto.NotificationRequest{
			Name: "Mochi",
			To:   "mochi@ofcoz.test",
			Booking: &dto.BookingDetails{
				ID:                 "booking-1",
				RoomName:           "Paw Room",
				StartTime:          start,
				EndTime:            start.Add(2 * time.Hour),
				PaymentMethod:      constant.PaymentMethodToken,
				TotalCost:          2,
				Guests:             2,
				Status:             constant.BookingStatusConfirmed,
				CancellationReason: &reason,
				Refunded:           true,
			},
			Package: &dto.PackageDetails{
				PackageType: constant.PaymentMethodBR15,
				Amount:      15,
				Balance:     17.5,
				Expiry:      &expiry,
			},
		},
		RoomName:    "Paw Room",
		FrontendURL: "https://ofcoz.test",
	}
}

func TestRenderEveryKindAndLanguage(t *testing.T) {
	set, err := templates.Load(dto.Kinds)
	require.NoError(t, err)

	for _, kind := range dto.Kinds {
		for _, language := range templates.Languages {
			t.Run(kind+"."+language, func(t *testing.T) {
				rendered, err := set.Render(kind, language, sample())
				require.NoError(t, err)

				assert.NotEmpty(t, rendered.Subject)
				assert.Contains(t, rendered.HTML, "<!DOCTYPE html>")
				assert.Contains(t, rendered.HTML, "Mochi")
				assert.Contains(t, rendered.HTML, "https://ofcoz.test")
			})
		}
	}
}

func TestRenderDetails(t *testing.T) {
	set, err := templates.Load(dto.Kinds)
	require.NoError(t, err)

	rendered, err := set.Render(dto.KindBookingCancellation, constant.LanguageEnglish, sample())
	require.NoError(t, err)

	assert.Equal(t, "Booking cancelled", rendered.Subject)
	assert.Contains(t, rendered.HTML, "2026-10-15")
	assert.Contains(t, rendered.HTML, "10:00 - 12:00")
	assert.Contains(t, rendered.HTML, "Reason: Plans changed")
	assert.Contains(t, rendered.HTML, "2 tokens have been returned")

	rendered, err = set.Render(dto.KindPackageAssigned, constant.LanguageChinese, sample())
	require.NoError(t, err)

	assert.Equal(t, "套票已加入您的帳戶", rendered.Subject)
	assert.Contains(t, rendered.HTML, "17.5 小時")
}

func TestRenderFallsBackToEnglish(t *testing.T) {
	set, err := templates.Load(dto.Kinds)
	require.NoError(t, err)

	rendered, err := set.Render(dto.KindPaymentConfirmed, "fr", sample())
	require.NoError(t, err)
	assert.Equal(t, "Payment confirmed", rendered.Subject)

	_, err = set.Render("unknown", constant.LanguageEnglish, sample())
	assert.Error(t, err)
}
