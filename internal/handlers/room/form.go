package room

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"ofcoz/internal/domains/room/model"
	"ofcoz/internal/domains/room/model/dto"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
)

const formFieldImage = "image"

// roomForm holds the multipart fields shared by create and update. Absent numbers stay nil so an
// update only touches what was sent.
type roomForm struct {
	id       string
	name     string
	location string
	roomType string
	capacity *int
	hourly   *float64
	daily    *float64
	monthly  *float64
	active   *bool
	header   *multipart.FileHeader
	file     multipart.File
}

func parseRoomForm(r *http.Request) (form roomForm, err error) {
	if err = r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return form, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	form.id = r.FormValue(model.FieldID)
	form.name = r.FormValue(model.FieldName)
	form.location = r.FormValue(model.FieldLocation)
	form.roomType = r.FormValue(model.FieldRoomType)
	form.active = shared.ConvertStringToBool(r.FormValue(model.FieldActive))

	if raw := r.FormValue(model.FieldCapacity); raw != "" {
		capacity, convErr := shared.ConvertStringToInt(raw)
		if convErr != nil {
			return form, failure.BadRequestFromString("capacity must be a whole number")
		}

		form.capacity = &capacity
	}

	prices := map[string]**float64{
		model.FieldPriceHourly:  &form.hourly,
		model.FieldPriceDaily:   &form.daily,
		model.FieldPriceMonthly: &form.monthly,
	}

	for field, dest := range prices {
		raw := r.FormValue(field)
		if raw == "" {
			continue
		}

		price, convErr := shared.ConvertStringToFloat(raw)
		if convErr != nil {
			return form, failure.BadRequestFromString(field + " must be a number")
		}

		*dest = &price
	}

	if file, header, fileErr := r.FormFile(formFieldImage); fileErr == nil {
		form.file = file
		form.header = header
	}

	return form, nil
}

func (f roomForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

func valueOr[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}

	return *v
}

func (f roomForm) create() dto.CreateRoomRequest {
	return dto.CreateRoomRequest{
		ID:           f.id,
		Name:         f.name,
		Location:     f.location,
		RoomType:     f.roomType,
		Capacity:     valueOr(f.capacity),
		PriceHourly:  valueOr(f.hourly),
		PriceDaily:   valueOr(f.daily),
		PriceMonthly: valueOr(f.monthly),
		Active:       f.active,
		Image:        f.header,
		ImageFile:    f.file,
	}
}

func (f roomForm) update() dto.UpdateRoomRequest {
	return dto.UpdateRoomRequest{
		Name:         f.name,
		Location:     f.location,
		RoomType:     f.roomType,
		Capacity:     f.capacity,
		PriceHourly:  f.hourly,
		PriceDaily:   f.daily,
		PriceMonthly: f.monthly,
		Active:       f.active,
		Image:        f.header,
		ImageFile:    f.file,
	}
}
