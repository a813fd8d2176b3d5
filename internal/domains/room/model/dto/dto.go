package dto

import (
	"mime/multipart"

	"ofcoz/internal/domains/room/model"
	"ofcoz/shared"
	gDto "ofcoz/shared/dto"
	gModel "ofcoz/shared/model"
	"ofcoz/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	ID           string                `json:"id"            validate:"omitempty,max=36"`
	Name         string                `json:"name"          validate:"required,max=100"`
	Location     string                `json:"location"      validate:"omitempty,max=100"`
	Capacity     int                   `json:"capacity"      validate:"omitempty,min=0"`
	RoomType     string                `json:"room_type"     validate:"omitempty,oneof=standard lobby_seat"`
	PriceHourly  float64               `json:"price_hourly"  validate:"omitempty,min=0"`
	PriceDaily   float64               `json:"price_daily"   validate:"omitempty,min=0"`
	PriceMonthly float64               `json:"price_monthly" validate:"omitempty,min=0"`
	Image        *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile    multipart.File        `json:"-"`
	Active       *bool                 `json:"active"        validate:"omitempty"`
}

// ToModel keeps a caller supplied id so seeded short ids such as "2" stay stable.
func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	roomType := c.RoomType
	if roomType == "" {
		roomType = model.TypeStandard
	}

	return model.Room{
		ID:           id,
		Name:         c.Name,
		Location:     c.Location,
		Capacity:     c.Capacity,
		Image:        imageURL,
		Active:       active,
		RoomType:     roomType,
		PriceHourly:  c.PriceHourly,
		PriceDaily:   c.PriceDaily,
		PriceMonthly: c.PriceMonthly,
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateRoomRequest struct {
	Name         string                `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Location     string                `db:"location"      json:"location"      validate:"omitempty,max=100"`
	Capacity     *int                  `db:"capacity"      json:"capacity"      validate:"omitempty,min=0"`
	RoomType     string                `db:"room_type"     json:"room_type"     validate:"omitempty,oneof=standard lobby_seat"`
	PriceHourly  *float64              `db:"price_hourly"  json:"price_hourly"  validate:"omitempty,min=0"`
	PriceDaily   *float64              `db:"price_daily"   json:"price_daily"   validate:"omitempty,min=0"`
	PriceMonthly *float64              `db:"price_monthly" json:"price_monthly" validate:"omitempty,min=0"`
	Image        *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile    multipart.File        `json:"-"`
	Active       *bool                 `db:"active"        json:"active"        validate:"omitempty"`
}

type Prices struct {
	Hourly  float64 `json:"hourly"`
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
	Active   bool   `json:"active"`
	RoomType string `json:"room_type"`
	Prices   Prices `json:"prices"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Active = model.Active
	r.RoomType = model.RoomType
	r.Prices = Prices{
		Hourly:  model.PriceHourly,
		Daily:   model.PriceDaily,
		Monthly: model.PriceMonthly,
	}
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
