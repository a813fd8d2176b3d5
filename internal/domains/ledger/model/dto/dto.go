package dto

import (
	"time"

	"ofcoz/internal/domains/ledger/model"
	userDto "ofcoz/internal/domains/user/model/dto"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	gDto "ofcoz/shared/dto"
)

// AssignPackageRequest credits a package. Expiry wins over ExpiryDays when both are set;
// tokens ignore both.
type AssignPackageRequest struct {
	UserID      string  `json:"user_id"               validate:"required"`
	PackageType string  `json:"package_type"          validate:"required,oneof=token br15 br30 dp20"`
	Amount      float64 `json:"amount"                validate:"required,gt=0"`
	ExpiryDays  int     `json:"expiry_days,omitempty" validate:"omitempty,min=1,max=3650"`
	Expiry      string  `json:"expiry,omitempty"      validate:"omitempty,dateonly"`
}

func (r AssignPackageRequest) Validate() error {
	if r.PackageType == constant.PaymentMethodDP20 && r.Amount != float64(int(r.Amount)) {
		return failure.Validation("dp20 amount must be a whole number of days")
	}

	return nil
}

// ExpiryAt resolves the expiry to store, nil when the package does not expire.
func (r AssignPackageRequest) ExpiryAt(now time.Time, loc *time.Location) (*time.Time, error) {
	if _, ok := model.ExpiryColumn(r.PackageType); !ok {
		return nil, nil
	}

	if r.Expiry != constant.Empty {
		day, err := time.ParseInLocation(constant.DateOnlyLayout, r.Expiry, loc)
		if err != nil {
			return nil, err
		}

		end := day.AddDate(0, 0, 1).Add(-time.Second)

		return &end, nil
	}

	if r.ExpiryDays > 0 {
		end := now.AddDate(0, 0, r.ExpiryDays)

		return &end, nil
	}

	return nil, nil
}

type AssignPackageResponse struct {
	HistoryID   string  `json:"history_id"`
	UserID      string  `json:"user_id"`
	PackageType string  `json:"package_type"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
	Expiry      *string `json:"expiry,omitempty"`

	NotificationWarning string `json:"notification_warning,omitempty"`
}

func (r *AssignPackageResponse) SetExpiry(expiry *time.Time) {
	if expiry != nil {
		formatted := expiry.Format(constant.DateFormat)
		r.Expiry = &formatted
	}
}

type BalancesResponse = userDto.Balances

type HistoryResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	PackageType string  `json:"package_type"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason"`
	BookingID   *string `json:"booking_id,omitempty"`
	Expiry      *string `json:"expiry,omitempty"`
	gDto.Metadata
}

func (r *HistoryResponse) FromModel(m model.PackageHistory) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.PackageType = m.PackageType
	r.Amount = m.Amount
	r.Reason = m.Reason
	r.BookingID = m.BookingID

	if m.Expiry != nil {
		formatted := m.Expiry.Format(constant.DateFormat)
		r.Expiry = &formatted
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetHistoryResponse struct {
	History   []HistoryResponse `json:"history"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetHistoryResponse) FromModels(models []model.PackageHistory, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.History = make([]HistoryResponse, len(models))
	for i, mod := range models {
		r.History[i].FromModel(mod)
	}
}
