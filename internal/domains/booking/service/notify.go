package service

import (
	"context"

	"ofcoz/internal/domains/booking/model"
	notificationDto "ofcoz/internal/domains/notification/model/dto"
	roomModel "ofcoz/internal/domains/room/model"
	userModel "ofcoz/internal/domains/user/model"
	"ofcoz/shared"

	"github.com/rs/zerolog/log"
)

// notify mails the booking owner. A delivery failure never fails the caller; it is returned as a warning.
func (s *serviceImpl) notify(ctx context.Context, kind string, user userModel.User, room roomModel.Room, booking model.Booking, refunded bool) string {
	roomName := room.Name
	if roomName == "" {
		roomName = booking.RoomID
	}

	result := s.notifier.Notify(ctx, notificationDto.NotificationRequest{
		Kind:     kind,
		To:       user.Email,
		Name:     user.Name(),
		Language: user.PreferredLanguage,
		Booking: &notificationDto.BookingDetails{
			ID:                 booking.ID,
			RoomID:             booking.RoomID,
			RoomName:           roomName,
			StartTime:          booking.StartTime,
			EndTime:            booking.EndTime,
			BookingType:        booking.BookingType,
			PaymentMethod:      booking.PaymentMethod,
			TotalCost:          booking.TotalCost,
			Guests:             booking.Guests,
			Purpose:            booking.Purpose,
			Status:             booking.Status,
			CancellationReason: booking.CancellationReason,
			Refunded:           refunded,
		},
	})
	if result.Success {
		return ""
	}

	log.Warn().Str("kind", kind).Str("booking_id", booking.ID).Str("error", result.Error).Msg("notification not delivered")

	return result.Error
}

// notifyOwner looks up the owner and room before notifying. Lookup failures are reported as the warning.
func (s *serviceImpl) notifyOwner(ctx context.Context, kind string, booking model.Booking, refunded bool) string {
	user, err := s.getUser(ctx, booking.UserID)
	if err != nil {
		return err.Error()
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("room_id", booking.RoomID).Msg("failed to get room for notification")
	}

	return s.notify(ctx, kind, user, room, booking, refunded)
}
