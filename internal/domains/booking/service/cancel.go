package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"ofcoz/internal/domains/booking/model"
	"ofcoz/internal/domains/booking/model/dto"
	"ofcoz/internal/domains/booking/repository"
	ledgerModel "ofcoz/internal/domains/ledger/model"
	notificationDto "ofcoz/internal/domains/notification/model/dto"
	"ofcoz/internal/domains/settlement"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Cancel marks the booking cancelled and, when asked, credits package units back.
// The refund runs after the cancel is committed; a refund failure is reported but does not undo the cancel.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.CancelBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	booking, err := s.loadOwned(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.IsCancelled() {
		return res, failure.AlreadyCancelled("booking is already cancelled")
	}

	now := timezone.Now()
	hoursBefore := hoursUntil(booking.StartTime, now)

	var reason *string
	if req.Reason != constant.Empty {
		reason = &req.Reason
	}

	fields := map[string]any{
		model.FieldStatus:             constant.BookingStatusCancelled,
		model.FieldCancelledAt:        now,
		model.FieldCancelledBy:        actor,
		model.FieldCancellationReason: reason,
		model.FieldHoursBeforeBooking: hoursBefore,
		constant.FieldModifiedAt:      now,
		constant.FieldModifiedBy:      actor,
	}

	affected, err := s.repo.UpdateAffected(ctx, fields, repository.LiveFilter(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if affected == 0 {
		return res, failure.AlreadyCancelled("booking is already cancelled")
	}

	booking.Status = constant.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = &actor
	booking.CancellationReason = reason
	booking.HoursBeforeBooking = &hoursBefore
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	if req.ShouldRefund && ledgerModel.IsPackage(booking.PaymentMethod) {
		if refundErr := s.ledgerRepo.Refund(ctx, booking.UserID, booking.PaymentMethod, booking.RefundUnits(), booking.ID); refundErr != nil {
			log.Error().Err(refundErr).Str("booking_id", id).Msg("failed to refund cancelled booking")

			res.RefundError = refundErr.Error()
		} else {
			res.Refunded = true
		}
	}

	s.invalidate(ctx, res.Refunded)

	res.Booking.FromModel(booking)
	res.NotificationWarning = s.notifyOwner(ctx, notificationDto.KindBookingCancellation, booking, res.Refunded)

	return res, nil
}

// CancellationQuote evaluates the tiered schedule for reporting only.
func (s *serviceImpl) CancellationQuote(ctx context.Context, id string) (res dto.CancellationQuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancellationQuote")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.loadOwned(ctx, id)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	used, err := s.repo.Count(ctx, repository.CancelledSince(booking.UserID, timezone.StartOfMonth(now)))
	if err != nil {
		log.Error().Err(err).Str("user_id", booking.UserID).Msg("failed to count cancellations")

		return res, fmt.Errorf("failed to count cancellations: %w", err)
	}

	res.BookingID = booking.ID
	res.HoursBeforeBooking = hoursUntil(booking.StartTime, now)
	res.UsedThisMonth = used
	res.Evaluation = settlement.DefaultTieredPolicy(s.cfg.App.Booking.FreeCancelQuota).Evaluate(res.HoursBeforeBooking, used)

	return res, nil
}

// hoursUntil is floor((start - now) / 1h). It is negative once the booking has started.
func hoursUntil(start, now time.Time) int {
	return int(math.Floor(start.Sub(now).Hours()))
}
