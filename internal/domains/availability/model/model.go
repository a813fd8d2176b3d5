package model

import (
	"time"

	"ofcoz/shared/model"
)

const (
	TableName  = "available_dates"
	EntityName = "available_date"

	FieldID     = "id"
	FieldRoomID = "room_id"
	FieldDate   = "date"
	FieldNote   = "note"
)

// AvailableDate opens one calendar day for booking. A nil RoomID opens the day for every room.
type AvailableDate struct {
	ID     string    `db:"id"`
	RoomID *string   `db:"room_id"`
	Date   time.Time `db:"date"`
	Note   *string   `db:"note"`
	model.Metadata
}

func (a AvailableDate) IsGlobal() bool {
	return a.RoomID == nil
}
