package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"ofcoz/shared/constant"
	"ofcoz/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                   = "id"
	FieldUserID               = "user_id"
	FieldRoomID               = "room_id"
	FieldStartTime            = "start_time"
	FieldEndTime              = "end_time"
	FieldBookingType          = "booking_type"
	FieldPaymentMethod        = "payment_method"
	FieldPaymentStatus        = "payment_status"
	FieldStatus               = "status"
	FieldTotalCost            = "total_cost"
	FieldPurpose              = "purpose"
	FieldGuests               = "guests"
	FieldEquipment            = "equipment"
	FieldSpecialRequests      = "special_requests"
	FieldReceiptURL           = "receipt_url"
	FieldCancelledAt          = "cancelled_at"
	FieldCancelledBy          = "cancelled_by"
	FieldCancellationReason   = "cancellation_reason"
	FieldHoursBeforeBooking   = "hours_before_booking"
	FieldCancellationReviewed = "cancellation_reviewed"
)

type EquipmentItem struct {
	Type     string `json:"type"     validate:"required,max=50"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=50"`
}

// Equipment is stored as a JSONB array.
type Equipment []EquipmentItem

func (e Equipment) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(e)
}

func (e *Equipment) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*e = Equipment{}

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("equipment: unsupported column type")
	}

	return json.Unmarshal(raw, e)
}

func (e Equipment) Has(kind string) bool {
	for _, item := range e {
		if item.Type == kind && item.Quantity > 0 {
			return true
		}
	}

	return false
}

type Booking struct {
	ID                   string     `db:"id"`
	UserID               string     `db:"user_id"`
	RoomID               string     `db:"room_id"`
	StartTime            time.Time  `db:"start_time"`
	EndTime              time.Time  `db:"end_time"`
	BookingType          string     `db:"booking_type"`
	PaymentMethod        string     `db:"payment_method"`
	PaymentStatus        string     `db:"payment_status"`
	Status               string     `db:"status"`
	TotalCost            float64    `db:"total_cost"`
	Purpose              string     `db:"purpose"`
	Guests               int        `db:"guests"`
	Equipment            Equipment  `db:"equipment"`
	SpecialRequests      *string    `db:"special_requests"`
	ReceiptURL           *string    `db:"receipt_url"`
	CancelledAt          *time.Time `db:"cancelled_at"`
	CancelledBy          *string    `db:"cancelled_by"`
	CancellationReason   *string    `db:"cancellation_reason"`
	HoursBeforeBooking   *int       `db:"hours_before_booking"`
	CancellationReviewed bool       `db:"cancellation_reviewed"`
	model.Metadata
}

func (b Booking) IsCancelled() bool {
	return b.Status == constant.BookingStatusCancelled
}

func (b Booking) IsCash() bool {
	return b.PaymentMethod == constant.PaymentMethodCash
}

// RefundUnits is what a refund credits back: one visit for dp20, the debited hours otherwise.
func (b Booking) RefundUnits() float64 {
	if b.PaymentMethod == constant.PaymentMethodDP20 {
		return 1
	}

	return b.TotalCost
}

var transitions = map[string][]string{
	constant.BookingStatusPending:       {constant.BookingStatusToBeConfirmed, constant.BookingStatusConfirmed, constant.BookingStatusCancelled},
	constant.BookingStatusToBeConfirmed: {constant.BookingStatusConfirmed, constant.BookingStatusCancelled},
	constant.BookingStatusConfirmed:     {constant.BookingStatusRescheduled, constant.BookingStatusCancelled},
	constant.BookingStatusRescheduled:   {constant.BookingStatusConfirmed, constant.BookingStatusCancelled},
}

// CanTransition reports whether status may move from one value to another. Cancelled is terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}

	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
