package model

import "ofcoz/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldName         = "name"
	FieldLocation     = "location"
	FieldCapacity     = "capacity"
	FieldImage        = "image"
	FieldActive       = "active"
	FieldRoomType     = "room_type"
	FieldPriceHourly  = "price_hourly"
	FieldPriceDaily   = "price_daily"
	FieldPriceMonthly = "price_monthly"
)

const (
	TypeStandard  = "standard"
	TypeLobbySeat = "lobby_seat"
)

type Room struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Location     string  `db:"location"`
	Capacity     int     `db:"capacity"`
	Image        string  `db:"image"`
	Active       bool    `db:"active"`
	RoomType     string  `db:"room_type"`
	PriceHourly  float64 `db:"price_hourly"`
	PriceDaily   float64 `db:"price_daily"`
	PriceMonthly float64 `db:"price_monthly"`
	model.Metadata
}

func (r Room) IsLobbySeat() bool {
	return r.RoomType == TypeLobbySeat
}
