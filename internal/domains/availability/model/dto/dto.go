package dto

import (
	"time"

	"ofcoz/internal/domains/availability/model"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	gModel "ofcoz/shared/model"
	"ofcoz/shared/timezone"

	"github.com/google/uuid"
)

// OpenDatesRequest opens each listed day. Leaving RoomID empty opens the days for all rooms.
type OpenDatesRequest struct {
	RoomID *string  `json:"room_id,omitempty" validate:"omitempty,max=36"`
	Dates  []string `json:"dates"             validate:"required,min=1,max=366,dive,dateonly"`
	Note   *string  `json:"note,omitempty"    validate:"omitempty,max=255"`
}

func (r *OpenDatesRequest) ToModels(actor string) ([]model.AvailableDate, error) {
	now := timezone.Now()
	seen := make(map[string]struct{}, len(r.Dates))
	models := make([]model.AvailableDate, 0, len(r.Dates))

	for _, day := range r.Dates {
		if _, ok := seen[day]; ok {
			continue
		}

		seen[day] = struct{}{}

		date, err := time.Parse(constant.DateOnlyLayout, day)
		if err != nil {
			return nil, err
		}

		models = append(models, model.AvailableDate{
			ID:       uuid.NewString(),
			RoomID:   r.RoomID,
			Date:     date,
			Note:     r.Note,
			Metadata: gModel.NewMetadata(actor, now),
		})
	}

	return models, nil
}

type AvailableDateResponse struct {
	ID     string  `json:"id"`
	RoomID *string `json:"room_id"`
	Date   string  `json:"date"`
	Note   *string `json:"note,omitempty"`
	Global bool    `json:"global"`
	gDto.Metadata
}

func (r *AvailableDateResponse) FromModel(m model.AvailableDate) {
	r.ID = m.ID
	r.RoomID = m.RoomID
	r.Date = m.Date.Format(constant.DateOnlyLayout)
	r.Note = m.Note
	r.Global = m.IsGlobal()
	r.Metadata.FromModel(m.Metadata)
}

type GetAvailableDatesResponse struct {
	Dates     []AvailableDateResponse `json:"dates"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (r *GetAvailableDatesResponse) FromModels(models []model.AvailableDate, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Dates = make([]AvailableDateResponse, len(models))
	for i, mod := range models {
		r.Dates[i].FromModel(mod)
	}
}

type CheckRequest struct {
	RoomID           string    `json:"room_id"                      validate:"required"`
	StartTime        time.Time `json:"start_time"                   validate:"required"`
	EndTime          time.Time `json:"end_time"                     validate:"required,gtfield=StartTime"`
	ExcludeBookingID *string   `json:"exclude_booking_id,omitempty" validate:"omitempty,uuid"`
}

type CheckResponse struct {
	Bookable bool `json:"bookable"`
	Conflict bool `json:"conflict"`
}
