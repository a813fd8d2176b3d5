package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"ofcoz/config"
	"ofcoz/infras/otel"
	"ofcoz/infras/s3"
	"ofcoz/internal/domains/room/model"
	"ofcoz/internal/domains/room/model/dto"
	"ofcoz/internal/domains/room/repository"
	"ofcoz/shared"
	"ofcoz/shared/cache"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := shared.Actor(ctx)

	if req.ID != constant.Empty {
		exist, err := s.repo.Exist(ctx, shared.FilterByID(req.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if room exists")

			return fmt.Errorf("failed to check if room exists: %w", err)
		}

		if exist {
			return failure.Conflict("room id already exists")
		}
	}

	imageURL, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, imageURL)); err != nil {
		log.Error().Err(err).Msg("failed to create room")
		s.deleteImage(ctx, objectName)

		return fmt.Errorf("failed to create room: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllRoom, cacheCountRoom)

	return nil
}

// GetAll and Count are cached per query. Writes clear both prefixes.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetRoomsResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		rooms, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list rooms")

			return page, fmt.Errorf("failed to get rooms: %w", err)
		}

		page.FromModels(rooms, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count rooms: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetRoom, id), s.cfg.Cache.TTL, func(ctx context.Context) (found dto.RoomResponse, err error) {
		room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return found, fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return found, failure.NotFound("room not found")
		}

		found.FromModel(room)

		return found, nil
	})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := shared.Actor(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("room not found")
	}

	imageURL, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")
		s.deleteImage(ctx, objectName)

		return fmt.Errorf("failed to update room: %w", err)
	}

	if imageURL != constant.Empty && current.Image != constant.Empty {
		s.deleteImage(ctx, filepath.Base(s.s3.GetObjectNameFromURL(s.cfg.External.S3.BucketName, current.Image)))
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found")
	}

	busy, err := s.repo.HasUpcomingBookings(ctx, id)
	if err != nil {
		return err
	}

	if busy {
		return failure.Conflict("room has upcoming bookings, deactivate it instead")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

// uploadImage stores the image under the room directory and returns its public url and object name.
func (s *serviceImpl) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if header == nil {
		return constant.Empty, constant.Empty, nil
	}

	objectName := uuid.NewString() + filepath.Ext(header.Filename)

	url, err := s.s3.UploadFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, file, header, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, objectName, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, objectName string) {
	if objectName == constant.Empty || objectName == "." {
		return
	}

	if err := s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, objectName); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("failed to delete room image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete room cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllRoom, cacheCountRoom)
}
