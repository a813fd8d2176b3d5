package settlement_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roomModel "ofcoz/internal/domains/room/model"
	"ofcoz/internal/domains/settlement"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"
)

var policy = settlement.Policy{
	ProjectorRoomIDs: []string{"2", "4"},
	ProjectorFee:     20,
	MinDuration:      time.Hour,
	DP20OpenHour:     10,
	DP20CloseHour:    20,
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 15, hour, minute, 0, 0, timezone.GetLocation())
}

func TestHours(t *testing.T) {
	assert.InDelta(t, 1.5, settlement.Hours(at(10, 0), at(11, 30)), 0.0001)
	assert.InDelta(t, 2.25, settlement.Hours(at(9, 45), at(12, 0)), 0.0001)
	assert.Zero(t, settlement.Hours(at(12, 0), at(10, 0)))
	assert.InDelta(t, 4, settlement.Hours(at(22, 0), at(22, 0).Add(4*time.Hour)), 0.0001)
	assert.InDelta(t, 48, settlement.Hours(at(9, 0), at(9, 0).AddDate(0, 0, 2)), 0.0001)
}

func TestCalculate(t *testing.T) {
	room := settlement.Room{ID: "2", Type: roomModel.TypeStandard, Prices: settlement.Prices{Hourly: 100, Daily: 300, Monthly: 5000}}
	lobby := settlement.Room{ID: "6", Type: roomModel.TypeLobbySeat, Prices: settlement.Prices{Hourly: 40, Daily: 150}}

	tests := []struct {
		name       string
		in         settlement.Input
		wantCash   float64
		wantUnits  float64
		wantFee    float64
		wantReason string
	}{
		{
			name:     "hourly cash with projector in allowed room",
			in:       settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(10, 0), End: at(12, 0), WantsProjector: true},
			wantCash: 220,
			wantFee:  20,
		},
		{
			name:     "projector ignored outside allowed rooms",
			in:       settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: settlement.Room{ID: "3", Prices: room.Prices}, Start: at(10, 0), End: at(12, 0), WantsProjector: true},
			wantCash: 200,
		},
		{
			name:     "hourly cash for ninety minutes",
			in:       settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(10, 0), End: at(11, 30)},
			wantCash: 150,
		},
		{
			name:     "daily lobby seat multiplies guests",
			in:       settlement.Input{BookingType: constant.BookingTypeDaily, PaymentMethod: constant.PaymentMethodCash, Room: lobby, Start: at(9, 0), End: at(18, 0), Guests: 3},
			wantCash: 450,
		},
		{
			name:     "daily standard room ignores guests",
			in:       settlement.Input{BookingType: constant.BookingTypeDaily, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(9, 0), End: at(18, 0), Guests: 3},
			wantCash: 300,
		},
		{
			name:     "monthly cash",
			in:       settlement.Input{BookingType: constant.BookingTypeMonthly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(9, 0), End: at(18, 0)},
			wantCash: 5000,
		},
		{
			name:      "token units follow hours",
			in:        settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(10, 0), End: at(12, 0)},
			wantUnits: 2,
		},
		{
			name:      "br15 units follow hours",
			in:        settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodBR15, Room: room, Start: at(13, 0), End: at(14, 30)},
			wantUnits: 1.5,
		},
		{
			name:     "hourly cash across midnight",
			in:       settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(22, 0), End: at(22, 0).Add(4 * time.Hour)},
			wantCash: 400,
		},
		{
			name:      "token units across midnight",
			in:        settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(22, 0), End: at(22, 0).Add(4 * time.Hour)},
			wantUnits: 4,
		},
		{
			name:      "br15 units over two days",
			in:        settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodBR15, Room: room, Start: at(9, 0), End: at(9, 0).AddDate(0, 0, 2)},
			wantUnits: 48,
		},
		{
			name:       "token units off the half hour are rejected",
			in:         settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(10, 0), End: at(11, 20)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:      "token units may start off the hour",
			in:        settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(10, 15), End: at(11, 45)},
			wantUnits: 1.5,
		},
		{
			name:     "hourly cash rounds to cents",
			in:       settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(10, 0), End: at(11, 20)},
			wantCash: 133.33,
		},
		{
			name:       "dp20 across midnight",
			in:         settlement.Input{BookingType: constant.BookingTypeDaily, PaymentMethod: constant.PaymentMethodDP20, Room: room, Start: at(18, 0), End: at(18, 0).Add(8 * time.Hour)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:      "dp20 is one unit whatever the duration",
			in:        settlement.Input{BookingType: constant.BookingTypeDaily, PaymentMethod: constant.PaymentMethodDP20, Room: room, Start: at(10, 0), End: at(20, 0)},
			wantUnits: 1,
		},
		{
			name:       "dp20 outside operating hours",
			in:         settlement.Input{BookingType: constant.BookingTypeDaily, PaymentMethod: constant.PaymentMethodDP20, Room: room, Start: at(9, 0), End: at(12, 0)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:       "below minimum duration is rejected",
			in:         settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodCash, Room: room, Start: at(10, 0), End: at(10, 45)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:       "inverted interval is rejected",
			in:         settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(12, 0), End: at(10, 0)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:       "zero length interval is rejected",
			in:         settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: constant.PaymentMethodToken, Room: room, Start: at(12, 0), End: at(12, 0)},
			wantReason: failure.ReasonValidation,
		},
		{
			name:       "unknown payment method",
			in:         settlement.Input{BookingType: constant.BookingTypeHourly, PaymentMethod: "bitcoin", Room: room, Start: at(10, 0), End: at(12, 0)},
			wantReason: failure.ReasonValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := settlement.Calculate(policy, tt.in)

			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantCash, quote.CashTotal, 0.0001)
			assert.InDelta(t, tt.wantUnits, quote.Units, 0.0001)
			assert.InDelta(t, tt.wantFee, quote.ProjectorFee, 0.0001)
		})
	}
}

func TestQuoteCost(t *testing.T) {
	assert.InDelta(t, 220, settlement.Quote{PaymentMethod: constant.PaymentMethodCash, CashTotal: 220}.Cost(), 0.0001)
	assert.InDelta(t, 2, settlement.Quote{PaymentMethod: constant.PaymentMethodToken, Units: 2}.Cost(), 0.0001)
	assert.InDelta(t, 1, settlement.Quote{PaymentMethod: constant.PaymentMethodDP20, Units: 1, Hours: 10}.Cost(), 0.0001)
}

func TestCheckBalance(t *testing.T) {
	now := at(9, 0)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		method     string
		units      float64
		balances   settlement.Balances
		wantReason string
	}{
		{name: "cash skips balances", method: constant.PaymentMethodCash, units: 500},
		{name: "enough tokens", method: constant.PaymentMethodToken, units: 2, balances: settlement.Balances{Tokens: 5}},
		{name: "exact br30 balance", method: constant.PaymentMethodBR30, units: 3, balances: settlement.Balances{BR30: 3, BR30Expiry: &future}},
		{name: "nil expiry never expires", method: constant.PaymentMethodBR15, units: 1, balances: settlement.Balances{BR15: 4}},
		{name: "empty dp20", method: constant.PaymentMethodDP20, units: 1, wantReason: failure.ReasonInsufficientBalance},
		{name: "short tokens", method: constant.PaymentMethodToken, units: 3, balances: settlement.Balances{Tokens: 2.5}, wantReason: failure.ReasonInsufficientBalance},
		{name: "expired br15", method: constant.PaymentMethodBR15, units: 1, balances: settlement.Balances{BR15: 10, BR15Expiry: &past}, wantReason: failure.ReasonPackageExpired},
		{name: "expiry equal to now is expired", method: constant.PaymentMethodDP20, units: 1, balances: settlement.Balances{DP20: 2, DP20Expiry: &now}, wantReason: failure.ReasonPackageExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := settlement.CheckBalance(tt.method, tt.units, tt.balances, now)

			if tt.wantReason == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantReason, failure.GetReason(err))
			assert.Equal(t, http.StatusPaymentRequired, failure.GetCode(err))
		})
	}
}

func TestCheckBalanceDetails(t *testing.T) {
	err := settlement.CheckBalance(constant.PaymentMethodToken, 3, settlement.Balances{Tokens: 1}, at(9, 0))

	details := failure.GetDetails(err)
	assert.Equal(t, constant.PaymentMethodToken, details["package"])
	assert.InDelta(t, 2, details["short_by"], 0.0001)
}

func TestTieredPolicy(t *testing.T) {
	p := settlement.DefaultTieredPolicy(2)

	assert.Equal(t, settlement.Evaluation{Free: true, RefundPercent: 100, Tier: settlement.TierEarly}, p.Evaluate(72, 5))
	assert.Equal(t, settlement.Evaluation{Free: true, RefundPercent: 100, Tier: settlement.TierStandard}, p.Evaluate(30, 1))
	assert.Equal(t, settlement.Evaluation{RefundPercent: 50, Tier: settlement.TierOverQuota}, p.Evaluate(30, 2))
	assert.Equal(t, settlement.Evaluation{Tier: settlement.TierLate}, p.Evaluate(5, 0))
}
