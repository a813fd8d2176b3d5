// Package settlement prices a booking and checks it against the booker's package balances.
// Everything here is pure and nothing touches storage.
package settlement

import (
	"fmt"
	"math"
	"slices"
	"time"

	"ofcoz/config"
	roomModel "ofcoz/internal/domains/room/model"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"
)

// unitStep is the granularity package hours are debited in.
const unitStep = 30 * time.Minute

type Policy struct {
	ProjectorRoomIDs []string
	ProjectorFee     float64
	MinDuration      time.Duration
	DP20OpenHour     int
	DP20CloseHour    int
}

func PolicyFromConfig(cfg *config.Config) Policy {
	booking := cfg.App.Booking

	return Policy{
		ProjectorRoomIDs: booking.ProjectorRoomIDs,
		ProjectorFee:     booking.ProjectorFee,
		MinDuration:      time.Duration(booking.MinDurationMinutes) * time.Minute,
		DP20OpenHour:     booking.DP20OpenHour,
		DP20CloseHour:    booking.DP20CloseHour,
	}
}

type Prices struct {
	Hourly  float64
	Daily   float64
	Monthly float64
}

type Room struct {
	ID     string
	Type   string
	Prices Prices
}

type Input struct {
	BookingType    string
	PaymentMethod  string
	Room           Room
	Start          time.Time
	End            time.Time
	Guests         int
	WantsProjector bool
}

type Quote struct {
	Hours         float64 `json:"hours"`
	CashTotal     float64 `json:"cash_total"`
	Units         float64 `json:"units"`
	PaymentMethod string  `json:"payment_method"`
	ProjectorFee  float64 `json:"projector_fee"`
}

// Cost is the amount stored as the booking total: money for cash, package units otherwise.
func (q Quote) Cost() float64 {
	if q.PaymentMethod == constant.PaymentMethodCash {
		return q.CashTotal
	}

	return q.Units
}

// Hours is the elapsed time between start and end, zero for inverted intervals.
func Hours(start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}

	return end.Sub(start).Hours()
}

func clock(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// cents rounds money to the two decimals stored in total_cost.
func cents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func Calculate(policy Policy, in Input) (Quote, error) {
	quote := Quote{PaymentMethod: in.PaymentMethod}

	if !in.Start.Before(in.End) {
		return quote, failure.Validation("end_time must be after start_time")
	}

	if in.End.Sub(in.Start) < policy.MinDuration {
		return quote, failure.Validation(fmt.Sprintf("minimum booking duration is %d minutes", int(policy.MinDuration.Minutes())))
	}

	quote.Hours = Hours(in.Start, in.End)

	switch in.PaymentMethod {
	case constant.PaymentMethodCash:
		return cashQuote(policy, in, quote)
	case constant.PaymentMethodToken, constant.PaymentMethodBR15, constant.PaymentMethodBR30:
		if in.End.Sub(in.Start)%unitStep != 0 {
			return quote, failure.Validation("package bookings must be in steps of 30 minutes")
		}

		quote.Units = quote.Hours

		return quote, nil
	case constant.PaymentMethodDP20:
		if err := withinDP20Window(policy, in.Start, in.End); err != nil {
			return quote, err
		}

		quote.Units = 1

		return quote, nil
	default:
		return quote, failure.Validation("unsupported payment_method " + in.PaymentMethod)
	}
}

func cashQuote(policy Policy, in Input, quote Quote) (Quote, error) {
	prices := in.Room.Prices

	switch in.BookingType {
	case constant.BookingTypeHourly:
		if in.WantsProjector && slices.Contains(policy.ProjectorRoomIDs, in.Room.ID) {
			quote.ProjectorFee = policy.ProjectorFee
		}

		quote.CashTotal = cents(quote.Hours*prices.Hourly + quote.ProjectorFee)
	case constant.BookingTypeDaily:
		quote.CashTotal = prices.Daily

		if in.Room.Type == roomModel.TypeLobbySeat {
			quote.CashTotal *= float64(max(in.Guests, 1))
		}
	case constant.BookingTypeMonthly:
		quote.CashTotal = prices.Monthly
	default:
		return quote, failure.Validation("unsupported booking_type " + in.BookingType)
	}

	return quote, nil
}

// withinDP20Window requires a DP20 visit to start and end on the same day inside the operating hours.
func withinDP20Window(policy Policy, start, end time.Time) error {
	s := timezone.ToAppTime(start)
	e := timezone.ToAppTime(end)

	if s.Format(constant.DateOnlyLayout) != e.Format(constant.DateOnlyLayout) {
		return failure.Validation("dp20 bookings must start and end on the same day")
	}

	if clock(s) < float64(policy.DP20OpenHour) || clock(e) > float64(policy.DP20CloseHour) {
		return failure.Validation(fmt.Sprintf("dp20 bookings must be between %02d:00 and %02d:00", policy.DP20OpenHour, policy.DP20CloseHour))
	}

	return nil
}
