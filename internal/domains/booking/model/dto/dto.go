package dto

import (
	"mime/multipart"
	"time"

	"ofcoz/internal/domains/booking/model"
	"ofcoz/internal/domains/settlement"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"
	gModel "ofcoz/shared/model"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID          string                `json:"room_id"                    validate:"required,max=36"`
	StartTime       time.Time             `json:"start_time"                 validate:"required"`
	EndTime         time.Time             `json:"end_time"                   validate:"required"`
	BookingType     string                `json:"booking_type"               validate:"required,oneof=hourly daily monthly"`
	PaymentMethod   string                `json:"payment_method"             validate:"required,oneof=cash token br15 br30 dp20"`
	Purpose         string                `json:"purpose"                    validate:"required,max=500"`
	Guests          int                   `json:"guests"                     validate:"gte=1,lte=100"`
	Equipment       []model.EquipmentItem `json:"equipment"                  validate:"required,min=1,dive"`
	SpecialRequests *string               `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

func (r CreateBookingRequest) Validate() error {
	if !r.StartTime.Before(r.EndTime) {
		return failure.Validation("start_time must be before end_time")
	}

	return nil
}

func (r CreateBookingRequest) SettlementInput(room settlement.Room) settlement.Input {
	return settlement.Input{
		BookingType:    r.BookingType,
		PaymentMethod:  r.PaymentMethod,
		Room:           room,
		Start:          r.StartTime,
		End:            r.EndTime,
		Guests:         r.Guests,
		WantsProjector: model.Equipment(r.Equipment).Has(constant.EquipmentProjector),
	}
}

func (r CreateBookingRequest) ToModel(userID, actor string, quote settlement.Quote, status, paymentStatus string, now time.Time) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		RoomID:          r.RoomID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		BookingType:     r.BookingType,
		PaymentMethod:   r.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          status,
		TotalCost:       quote.Cost(),
		Purpose:         r.Purpose,
		Guests:          r.Guests,
		Equipment:       model.Equipment(r.Equipment),
		SpecialRequests: r.SpecialRequests,
		Metadata:        gModel.NewMetadata(actor, now),
	}
}

// QuoteRequest prices a prospective booking without writing anything.
type QuoteRequest struct {
	RoomID         string    `json:"room_id"         validate:"required,max=36"`
	StartTime      time.Time `json:"start_time"      validate:"required"`
	EndTime        time.Time `json:"end_time"        validate:"required"`
	BookingType    string    `json:"booking_type"    validate:"required,oneof=hourly daily monthly"`
	PaymentMethod  string    `json:"payment_method"  validate:"required,oneof=cash token br15 br30 dp20"`
	Guests         int       `json:"guests"          validate:"omitempty,gte=1,lte=100"`
	WantsProjector bool      `json:"wants_projector"`
}

func (r QuoteRequest) SettlementInput(room settlement.Room) settlement.Input {
	return settlement.Input{
		BookingType:    r.BookingType,
		PaymentMethod:  r.PaymentMethod,
		Room:           room,
		Start:          r.StartTime,
		End:            r.EndTime,
		Guests:         r.Guests,
		WantsProjector: r.WantsProjector,
	}
}

type QuoteResponse = settlement.Quote

// AdminCreateBookingRequest books on behalf of a user. The booking is confirmed immediately.
type AdminCreateBookingRequest struct {
	CreateBookingRequest
	UserID string `json:"user_id" validate:"required,max=36"`
}

// UpdateBookingRequest edits a booking. Only CancellationReviewed may change on a cancelled booking.
type UpdateBookingRequest struct {
	RoomID               *string                `json:"room_id,omitempty"               validate:"omitempty,max=36"`
	StartTime            *time.Time             `json:"start_time,omitempty"`
	EndTime              *time.Time             `json:"end_time,omitempty"`
	Purpose              *string                `json:"purpose,omitempty"               validate:"omitempty,max=500"`
	Guests               *int                   `json:"guests,omitempty"                validate:"omitempty,gte=1,lte=100"`
	Equipment            *[]model.EquipmentItem `json:"equipment,omitempty"             validate:"omitempty,min=1,dive"`
	SpecialRequests      *string                `json:"special_requests,omitempty"      validate:"omitempty,max=1000"`
	Status               *string                `json:"status,omitempty"                validate:"omitempty,oneof=pending to_be_confirmed confirmed rescheduled"`
	PaymentStatus        *string                `json:"payment_status,omitempty"        validate:"omitempty,oneof=pending completed"`
	CancellationReviewed *bool                  `json:"cancellation_reviewed,omitempty"`
}

// ReschedulesSlot reports whether the edit touches the room or the interval.
func (r UpdateBookingRequest) ReschedulesSlot() bool {
	return r.RoomID != nil || r.StartTime != nil || r.EndTime != nil
}

// Reprices reports whether the edit can change what the booking costs.
func (r UpdateBookingRequest) Reprices() bool {
	return r.ReschedulesSlot() || r.Guests != nil || r.Equipment != nil
}

// SettlementInput applies the edit on top of the stored booking.
func (r UpdateBookingRequest) SettlementInput(booking model.Booking, room settlement.Room) settlement.Input {
	in := settlement.Input{
		BookingType:    booking.BookingType,
		PaymentMethod:  booking.PaymentMethod,
		Room:           room,
		Start:          booking.StartTime,
		End:            booking.EndTime,
		Guests:         booking.Guests,
		WantsProjector: booking.Equipment.Has(constant.EquipmentProjector),
	}

	if r.StartTime != nil {
		in.Start = *r.StartTime
	}

	if r.EndTime != nil {
		in.End = *r.EndTime
	}

	if r.Guests != nil {
		in.Guests = *r.Guests
	}

	if r.Equipment != nil {
		in.WantsProjector = model.Equipment(*r.Equipment).Has(constant.EquipmentProjector)
	}

	return in
}

// OnlyReview reports whether the edit sets nothing but the reviewed flag.
func (r UpdateBookingRequest) OnlyReview() bool {
	return r.CancellationReviewed != nil && !r.ReschedulesSlot() && r.Purpose == nil && r.Guests == nil &&
		r.Equipment == nil && r.SpecialRequests == nil && r.Status == nil && r.PaymentStatus == nil
}

// Fields maps the set values onto booking columns.
func (r UpdateBookingRequest) Fields() map[string]any {
	fields := map[string]any{}

	if r.RoomID != nil {
		fields[model.FieldRoomID] = *r.RoomID
	}

	if r.StartTime != nil {
		fields[model.FieldStartTime] = *r.StartTime
	}

	if r.EndTime != nil {
		fields[model.FieldEndTime] = *r.EndTime
	}

	if r.Purpose != nil {
		fields[model.FieldPurpose] = *r.Purpose
	}

	if r.Guests != nil {
		fields[model.FieldGuests] = *r.Guests
	}

	if r.Equipment != nil {
		fields[model.FieldEquipment] = model.Equipment(*r.Equipment)
	}

	if r.SpecialRequests != nil {
		fields[model.FieldSpecialRequests] = *r.SpecialRequests
	}

	if r.Status != nil {
		fields[model.FieldStatus] = *r.Status
	}

	if r.PaymentStatus != nil {
		fields[model.FieldPaymentStatus] = *r.PaymentStatus
	}

	if r.CancellationReviewed != nil {
		fields[model.FieldCancellationReviewed] = *r.CancellationReviewed
	}

	return fields
}

type CancelBookingRequest struct {
	Reason       string `json:"reason"        validate:"omitempty,max=500"`
	ShouldRefund bool   `json:"should_refund"`
}

type UploadReceiptRequest struct {
	Receipt     *multipart.FileHeader `json:"receipt" validate:"required,mimetypes=image/jpeg image/png application/pdf"`
	ReceiptFile multipart.File        `json:"-"`
}

type BookingResponse struct {
	ID                   string                `json:"id"`
	UserID               string                `json:"user_id"`
	RoomID               string                `json:"room_id"`
	StartTime            string                `json:"start_time"`
	EndTime              string                `json:"end_time"`
	BookingType          string                `json:"booking_type"`
	PaymentMethod        string                `json:"payment_method"`
	PaymentStatus        string                `json:"payment_status"`
	Status               string                `json:"status"`
	TotalCost            float64               `json:"total_cost"`
	Purpose              string                `json:"purpose"`
	Guests               int                   `json:"guests"`
	Equipment            []model.EquipmentItem `json:"equipment"`
	SpecialRequests      *string               `json:"special_requests,omitempty"`
	HasReceipt           bool                  `json:"has_receipt"`
	CancelledAt          *string               `json:"cancelled_at,omitempty"`
	CancelledBy          *string               `json:"cancelled_by,omitempty"`
	CancellationReason   *string               `json:"cancellation_reason,omitempty"`
	HoursBeforeBooking   *int                  `json:"hours_before_booking,omitempty"`
	CancellationReviewed bool                  `json:"cancellation_reviewed"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.RoomID = m.RoomID
	r.StartTime = m.StartTime.Format(constant.DateFormat)
	r.EndTime = m.EndTime.Format(constant.DateFormat)
	r.BookingType = m.BookingType
	r.PaymentMethod = m.PaymentMethod
	r.PaymentStatus = m.PaymentStatus
	r.Status = m.Status
	r.TotalCost = m.TotalCost
	r.Purpose = m.Purpose
	r.Guests = m.Guests
	r.Equipment = m.Equipment
	r.SpecialRequests = m.SpecialRequests
	r.HasReceipt = m.ReceiptURL != nil
	r.CancelledBy = m.CancelledBy
	r.CancellationReason = m.CancellationReason
	r.HoursBeforeBooking = m.HoursBeforeBooking
	r.CancellationReviewed = m.CancellationReviewed

	if m.CancelledAt != nil {
		formatted := m.CancelledAt.Format(constant.DateFormat)
		r.CancelledAt = &formatted
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type CreateBookingResponse struct {
	Booking             BookingResponse  `json:"booking"`
	Quote               settlement.Quote `json:"quote"`
	NotificationWarning string           `json:"notification_warning,omitempty"`
}

type CancelBookingResponse struct {
	Booking             BookingResponse `json:"booking"`
	Refunded            bool            `json:"refunded"`
	RefundError         string          `json:"refund_error,omitempty"`
	NotificationWarning string          `json:"notification_warning,omitempty"`
}

type ReceiptURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// CancellationQuoteResponse reports what the tiered schedule would say. Cancel never applies it.
type CancellationQuoteResponse struct {
	BookingID          string `json:"booking_id"`
	HoursBeforeBooking int    `json:"hours_before_booking"`
	UsedThisMonth      int    `json:"used_this_month"`
	settlement.Evaluation
}
