package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"ofcoz/internal/domains/booking/model"
	"ofcoz/internal/domains/booking/model/dto"
	"ofcoz/internal/domains/booking/repository"
	notificationDto "ofcoz/internal/domains/notification/model/dto"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"

	"github.com/rs/zerolog/log"
)

var receiptExtensions = map[string]string{
	constant.ContentTypeJPEG: "jpg",
	constant.ContentTypePNG:  "png",
	constant.ContentTypePDF:  "pdf",
}

// UploadReceipt stores a payment proof for a cash booking under {bookingId}/{unixMillis}.{ext}.
// Only the object key is persisted; views get a fresh presigned URL.
func (s *serviceImpl) UploadReceipt(ctx context.Context, id string, req dto.UploadReceiptRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadReceipt")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	booking, err := s.loadOwned(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.IsCash() {
		return res, failure.Validation("receipts are only accepted for cash bookings")
	}

	if booking.IsCancelled() {
		return res, failure.AlreadyCancelled("booking has been cancelled")
	}

	contentType, body, err := s.readReceipt(req)
	if err != nil {
		return res, err
	}

	bucket := s.cfg.App.Booking.ReceiptBucket
	now := timezone.Now()
	objectName := fmt.Sprintf("%d.%s", now.UnixMilli(), receiptExtensions[contentType])
	key := booking.ID + "/" + objectName

	if err = s.s3.PutObject(ctx, bucket, key, contentType, body); err != nil {
		return res, fmt.Errorf("failed to upload receipt: %w", err)
	}

	fields := map[string]any{
		model.FieldReceiptURL:    key,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	affected, err := s.repo.UpdateAffected(ctx, fields, repository.LiveFilter(id))
	if err == nil && affected == 0 {
		err = failure.AlreadyCancelled("booking has been cancelled")
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to save receipt")

		if delErr := s.s3.DeleteFile(context.WithoutCancel(ctx), bucket, booking.ID, objectName); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to remove orphaned receipt")
		}

		if failure.GetReason(err) != constant.Empty {
			return res, err
		}

		return res, fmt.Errorf("failed to save receipt: %w", err)
	}

	booking.ReceiptURL = &key
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	if booking.Status == constant.BookingStatusPending {
		booking.Status = s.awaitConfirmation(ctx, id, actor, now)
	}

	s.invalidate(ctx, false)
	s.notifyOwner(ctx, notificationDto.KindReceiptReceived, booking, false)

	res.FromModel(booking)

	return res, nil
}

// awaitConfirmation moves a pending booking to to_be_confirmed unless its status changed since it was read,
// and returns the status the booking ends up with.
func (s *serviceImpl) awaitConfirmation(ctx context.Context, id, actor string, now time.Time) string {
	fields := map[string]any{
		model.FieldStatus:        constant.BookingStatusToBeConfirmed,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	affected, err := s.repo.UpdateAffected(ctx, fields, repository.StatusFilter(id, constant.BookingStatusPending))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to move booking to review")
	}

	if err == nil && affected == 1 {
		return constant.BookingStatusToBeConfirmed
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return constant.BookingStatusPending
	}

	return current.Status
}

func (s *serviceImpl) readReceipt(req dto.UploadReceiptRequest) (contentType string, body []byte, err error) {
	if req.Receipt == nil || req.ReceiptFile == nil {
		return "", nil, failure.BadRequestFromString("receipt is required")
	}

	contentType = req.Receipt.Header.Get(constant.RequestHeaderContentType)
	if _, ok := receiptExtensions[contentType]; !ok {
		return "", nil, failure.Validation("receipt must be a JPEG, PNG or PDF file")
	}

	maxMB := s.cfg.App.Booking.ReceiptMaxSizeMB
	maxBytes := int64(maxMB * 1024 * 1024)
	tooLarge := failure.Validation(fmt.Sprintf("receipt must not exceed %g MB", maxMB))

	if req.Receipt.Size > maxBytes {
		return "", nil, tooLarge
	}

	body, err = io.ReadAll(io.LimitReader(req.ReceiptFile, maxBytes+1))
	if err != nil {
		return "", nil, failure.BadRequest(err)
	}

	if int64(len(body)) > maxBytes {
		return "", nil, tooLarge
	}

	return contentType, body, nil
}

func (s *serviceImpl) GetReceiptURL(ctx context.Context, id string) (res dto.ReceiptURLResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReceiptURL")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.loadOwned(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.ReceiptURL == nil {
		return res, failure.NotFound("receipt not found")
	}

	ttl := time.Duration(s.cfg.App.Booking.ReceiptURLTTL) * time.Second

	url, err := s.s3.PresignGetObject(ctx, s.cfg.App.Booking.ReceiptBucket, *booking.ReceiptURL, ttl)
	if err != nil {
		return res, fmt.Errorf("failed to sign receipt url: %w", err)
	}

	res.URL = url
	res.ExpiresAt = timezone.Now().Add(ttl).Format(constant.DateFormat)

	return res, nil
}
