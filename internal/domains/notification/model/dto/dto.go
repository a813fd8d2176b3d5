package dto

import (
	"slices"
	"time"

	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
)

const (
	KindBookingConfirmation = "booking_confirmation"
	KindBookingCancellation = "booking_cancellation"
	KindReceiptReceived     = "receipt_received"
	KindPaymentConfirmed    = "payment_confirmed"
	KindPackageAssigned     = "package_assigned"
)

var Kinds = []string{
	KindBookingConfirmation,
	KindBookingCancellation,
	KindReceiptReceived,
	KindPaymentConfirmed,
	KindPackageAssigned,
}

type BookingDetails struct {
	ID                 string    `json:"id"`
	RoomID             string    `json:"room_id"`
	RoomName           string    `json:"room_name"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	BookingType        string    `json:"booking_type"`
	PaymentMethod      string    `json:"payment_method"`
	TotalCost          float64   `json:"total_cost"`
	Guests             int       `json:"guests"`
	Purpose            string    `json:"purpose"`
	Status             string    `json:"status"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	Refunded           bool      `json:"refunded"`
}

// IsCash is used by templates to pick between a price and package units.
func (b BookingDetails) IsCash() bool {
	return b.PaymentMethod == constant.PaymentMethodCash
}

type PackageDetails struct {
	PackageType string     `json:"package_type"`
	Amount      float64    `json:"amount"`
	Balance     float64    `json:"balance"`
	Expiry      *time.Time `json:"expiry,omitempty"`
}

// NotificationRequest is both the HTTP body of the notification endpoints and the queued message.
type NotificationRequest struct {
	Kind               string          `json:"kind"                           validate:"required"`
	To                 string          `json:"to"                             validate:"required,email"`
	Name               string          `json:"name,omitempty"`
	Language           string          `json:"language,omitempty"             validate:"omitempty,max=5"`
	Booking            *BookingDetails `json:"booking,omitempty"`
	Package            *PackageDetails `json:"package,omitempty"`
	RoomNameTranslated string          `json:"roomNameTranslated,omitempty"`
}

func (r NotificationRequest) Validate() error {
	if !slices.Contains(Kinds, r.Kind) {
		return failure.Validation("unknown notification kind " + r.Kind)
	}

	if r.Kind == KindPackageAssigned {
		if r.Package == nil {
			return failure.Validation("package is required")
		}

		return nil
	}

	if r.Booking == nil {
		return failure.Validation("booking is required")
	}

	return nil
}

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func Failed(err error) Result {
	return Result{Error: err.Error()}
}
