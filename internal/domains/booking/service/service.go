package service

import (
	"context"
	"fmt"
	"time"

	"ofcoz/config"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/infras/s3"
	availabilityService "ofcoz/internal/domains/availability/service"
	"ofcoz/internal/domains/booking/model"
	"ofcoz/internal/domains/booking/model/dto"
	"ofcoz/internal/domains/booking/repository"
	ledgerModel "ofcoz/internal/domains/ledger/model"
	ledgerRepo "ofcoz/internal/domains/ledger/repository"
	notificationDto "ofcoz/internal/domains/notification/model/dto"
	notificationService "ofcoz/internal/domains/notification/service"
	roomModel "ofcoz/internal/domains/room/model"
	roomRepo "ofcoz/internal/domains/room/repository"
	"ofcoz/internal/domains/settlement"
	userModel "ofcoz/internal/domains/user/model"
	userRepo "ofcoz/internal/domains/user/repository"
	userService "ofcoz/internal/domains/user/service"
	"ofcoz/shared"
	"ofcoz/shared/cache"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	msgSlotTaken  = "the room is already booked for this time"
	msgDateClosed = "the room is not open for booking on this date"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	AdminCreate(ctx context.Context, req dto.AdminCreateBookingRequest) (dto.CreateBookingResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (settlement.Quote, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.CancelBookingResponse, error)
	CancellationQuote(ctx context.Context, id string) (dto.CancellationQuoteResponse, error)
	UploadReceipt(ctx context.Context, id string, req dto.UploadReceiptRequest) (dto.BookingResponse, error)
	GetReceiptURL(ctx context.Context, id string) (dto.ReceiptURLResponse, error)
	ConfirmPayment(ctx context.Context, id string) (dto.BookingResponse, error)
	MarkReviewed(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	userRepo   userRepo.User
	ledgerRepo ledgerRepo.Ledger
	gate       availabilityService.Gate
	transactor postgres.Transactor
	notifier   notificationService.Notifier
	s3         s3.S3
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	policy     settlement.Policy
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	ledgerRepo ledgerRepo.Ledger,
	gate availabilityService.Gate,
	transactor postgres.Transactor,
	notifier notificationService.Notifier,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		gate:       gate,
		transactor: transactor,
		notifier:   notifier,
		s3:         s3,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		policy:     settlement.PolicyFromConfig(cfg),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.Actor(ctx)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing user")
	}

	return s.book(ctx, req, userID, false)
}

func (s *serviceImpl) AdminCreate(ctx context.Context, req dto.AdminCreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminCreate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.book(ctx, req.CreateBookingRequest, req.UserID, true)
}

// book runs the gate and balance checks in order and then writes the booking.
// Package bookings insert, debit and append history in one transaction.
func (s *serviceImpl) book(ctx context.Context, req dto.CreateBookingRequest, userID string, byAdmin bool) (res dto.CreateBookingResponse, err error) {
	actor, _ := shared.Actor(ctx)

	if err = req.Validate(); err != nil {
		return res, err
	}

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	quote, err := settlement.Calculate(s.policy, req.SettlementInput(settlementRoom(room)))
	if err != nil {
		return res, err
	}

	if err = s.checkSlot(ctx, req.RoomID, req.StartTime, req.EndTime, nil); err != nil {
		return res, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	isPackage := ledgerModel.IsPackage(req.PaymentMethod)
	balances := ledgerModel.Balances(user)

	if isPackage {
		if err = settlement.CheckBalance(req.PaymentMethod, quote.Units, balances, now); err != nil {
			return res, err
		}
	}

	status, paymentStatus := s.initialStatus(req.PaymentMethod, byAdmin)
	booking := req.ToModel(user.ID, actor, quote, status, paymentStatus, now)

	if isPackage {
		available, _ := balances.Available(req.PaymentMethod)
		err = s.insertWithDebit(ctx, booking, quote.Units, available, actor, now)
	} else {
		err = s.repo.Insert(ctx, booking)
	}

	if err != nil {
		return res, s.writeError(err, "failed to create booking")
	}

	s.invalidate(ctx, isPackage)

	res.Booking.FromModel(booking)
	res.Quote = quote
	res.NotificationWarning = s.notify(ctx, notificationDto.KindBookingConfirmation, user, room, booking, false)

	return res, nil
}

func (s *serviceImpl) insertWithDebit(ctx context.Context, booking model.Booking, units, available float64, actor string, now time.Time) error {
	return s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return err
		}

		debited, err := s.ledgerRepo.DebitTx(ctx, tx, booking.UserID, booking.PaymentMethod, units, actor)
		if err != nil {
			return err
		}

		if !debited {
			return failure.InsufficientBalance(booking.PaymentMethod, units, available)
		}

		history := ledgerModel.NewHistory(booking.UserID, booking.PaymentMethod, -units, ledgerModel.ReasonBookingDebit, &booking.ID, nil, actor, now)

		return s.ledgerRepo.InsertTx(ctx, tx, history)
	})
}

func (s *serviceImpl) initialStatus(method string, byAdmin bool) (status, paymentStatus string) {
	switch {
	case byAdmin:
		return constant.BookingStatusConfirmed, constant.PaymentStatusCompleted
	case method == constant.PaymentMethodCash:
		return constant.BookingStatusPending, constant.PaymentStatusPending
	case s.cfg.App.Booking.AutoConfirmPackage:
		return constant.BookingStatusConfirmed, constant.PaymentStatusCompleted
	default:
		return constant.BookingStatusToBeConfirmed, constant.PaymentStatusCompleted
	}
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res settlement.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	return settlement.Calculate(s.policy, req.SettlementInput(settlementRoom(room)))
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetBookingsResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		bookings, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list bookings")

			return page, fmt.Errorf("failed to get bookings: %w", err)
		}

		page.FromModels(bookings, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	userID, _ := shared.Actor(ctx)
	if userID == constant.Empty {
		return dto.GetBookingsResponse{}, failure.Unauthorized("missing user")
	}

	return s.GetAll(ctx, req, shared.FilterByID(userID, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count bookings: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.loadOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Update is the admin edit. Edits that touch the price run settlement again and moving the room or the interval re-runs the gate, excluding the booking itself.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if booking.IsCancelled() && !req.OnlyReview() {
		return failure.Validation("a cancelled booking only accepts the reviewed flag")
	}

	if req.Status != nil && !model.CanTransition(booking.Status, *req.Status) {
		return failure.Validation(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, *req.Status))
	}

	fields := req.Fields()

	if req.Reprices() {
		cost, err := s.reprice(ctx, booking, req)
		if err != nil {
			return err
		}

		if cost != booking.TotalCost {
			fields[model.FieldTotalCost] = cost
		}
	}

	if req.ReschedulesSlot() {
		if err = s.checkReschedule(ctx, booking, req); err != nil {
			return err
		}

		if req.Status == nil && booking.Status == constant.BookingStatusConfirmed {
			fields[model.FieldStatus] = constant.BookingStatusRescheduled
		}
	}

	if len(fields) == 0 {
		return failure.BadRequestFromString("nothing to update")
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return s.writeError(err, "failed to update booking")
	}

	s.invalidate(ctx, false)

	return nil
}

// reprice runs the edited booking through settlement again. Package bookings were debited up front,
// so an edit that changes their units is refused.
func (s *serviceImpl) reprice(ctx context.Context, booking model.Booking, req dto.UpdateBookingRequest) (float64, error) {
	var (
		room roomModel.Room
		err  error
	)

	if req.RoomID != nil {
		room, err = s.bookableRoom(ctx, *req.RoomID)
	} else {
		room, err = s.findRoom(ctx, booking.RoomID)
		if err == nil && room.ID == constant.Empty {
			err = failure.NotFound("room not found")
		}
	}

	if err != nil {
		return 0, err
	}

	quote, err := settlement.Calculate(s.policy, req.SettlementInput(booking, settlementRoom(room)))
	if err != nil {
		return 0, err
	}

	if !booking.IsCash() && quote.Cost() != booking.TotalCost {
		return 0, failure.Validation(fmt.Sprintf("%s bookings cannot change from %g to %g units, cancel and book again", booking.PaymentMethod, booking.TotalCost, quote.Cost()))
	}

	return quote.Cost(), nil
}

func (s *serviceImpl) checkReschedule(ctx context.Context, booking model.Booking, req dto.UpdateBookingRequest) error {
	roomID, start, end := booking.RoomID, booking.StartTime, booking.EndTime

	if req.RoomID != nil {
		roomID = *req.RoomID
	}

	if req.StartTime != nil {
		start = *req.StartTime
	}

	if req.EndTime != nil {
		end = *req.EndTime
	}

	return s.checkSlot(ctx, roomID, start, end, &booking.ID)
}

func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !model.CanTransition(booking.Status, constant.BookingStatusConfirmed) {
		return res, failure.Validation(fmt.Sprintf("booking cannot be confirmed from %s", booking.Status))
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        constant.BookingStatusConfirmed,
		model.FieldPaymentStatus: constant.PaymentStatusCompleted,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	affected, err := s.repo.UpdateAffected(ctx, fields, repository.LiveFilter(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm payment")

		return res, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if affected == 0 {
		return res, failure.AlreadyCancelled("booking has been cancelled")
	}

	booking.Status = constant.BookingStatusConfirmed
	booking.PaymentStatus = constant.PaymentStatusCompleted
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	s.invalidate(ctx, false)
	s.notifyOwner(ctx, notificationDto.KindPaymentConfirmed, booking, false)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) MarkReviewed(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkReviewed")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !booking.IsCancelled() {
		return failure.Validation("only cancelled bookings can be reviewed")
	}

	fields := map[string]any{
		model.FieldCancellationReviewed: true,
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        actor,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to mark booking reviewed")

		return fmt.Errorf("failed to mark booking reviewed: %w", err)
	}

	s.invalidate(ctx, false)

	return nil
}

func (s *serviceImpl) checkSlot(ctx context.Context, roomID string, start, end time.Time, excludeBookingID *string) error {
	bookable, err := s.gate.IsBookable(ctx, roomID, start)
	if err != nil {
		return fmt.Errorf("failed to check available dates: %w", err)
	}

	if !bookable {
		return failure.Unavailable(msgDateClosed)
	}

	conflict, err := s.gate.HasConflict(ctx, roomID, start, end, excludeBookingID)
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if conflict {
		return failure.SlotConflict(msgSlotTaken)
	}

	return nil
}

// writeError keeps failures raised inside a transaction and maps the overlap constraint to a slot conflict.
func (s *serviceImpl) writeError(err error, msg string) error {
	if postgres.ErrorCode(err) == constant.PqErrorCodeExclusionViolation {
		return failure.SlotConflict(msgSlotTaken)
	}

	if failure.GetReason(err) != constant.Empty {
		return err
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) findRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (s *serviceImpl) bookableRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return room, err
	}

	if room.ID == constant.Empty || !room.Active {
		return room, failure.Validation("room does not exist or is not active")
	}

	return room, nil
}

func (s *serviceImpl) getUser(ctx context.Context, id string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

// loadOwned loads a booking the actor may see: their own, or any for admins.
func (s *serviceImpl) loadOwned(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return booking, err
	}

	actor, role := shared.Actor(ctx)
	if !shared.IsAdmin(role) && booking.UserID != actor {
		return booking, failure.Forbidden("booking belongs to another user")
	}

	return booking, nil
}

// invalidate drops list caches. Balance changes also stale the cached user lists.
func (s *serviceImpl) invalidate(ctx context.Context, balances bool) {
	prefixes := []string{cacheGetAllBooking, cacheCountBooking}
	if balances {
		prefixes = append(prefixes, userService.CacheGetAllUser)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, prefixes...)
}

func settlementRoom(room roomModel.Room) settlement.Room {
	return settlement.Room{
		ID:   room.ID,
		Type: room.RoomType,
		Prices: settlement.Prices{
			Hourly:  room.PriceHourly,
			Daily:   room.PriceDaily,
			Monthly: room.PriceMonthly,
		},
	}
}
