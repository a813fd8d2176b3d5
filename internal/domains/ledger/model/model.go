package model

import (
	"time"

	"ofcoz/internal/domains/settlement"
	userModel "ofcoz/internal/domains/user/model"
	"ofcoz/shared/constant"
	"ofcoz/shared/model"

	"github.com/google/uuid"
)

const (
	TableName  = "package_history"
	EntityName = "package_history"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldPackageType = "package_type"
	FieldAmount      = "amount"
	FieldReason      = "reason"
	FieldBookingID   = "booking_id"
	FieldExpiry      = "expiry"
)

const (
	ReasonAssigned      = "assigned"
	ReasonBookingDebit  = "booking_debit"
	ReasonBookingRefund = "booking_refund"
	ReasonAdjustment    = "adjustment"
)

// PackageHistory is one signed movement of a package balance. Rows are never updated.
type PackageHistory struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	PackageType string     `db:"package_type"`
	Amount      float64    `db:"amount"`
	Reason      string     `db:"reason"`
	BookingID   *string    `db:"booking_id"`
	Expiry      *time.Time `db:"expiry"`
	model.Metadata
}

func NewHistory(userID, packageType string, amount float64, reason string, bookingID *string, expiry *time.Time, actor string, now time.Time) PackageHistory {
	return PackageHistory{
		ID:          uuid.NewString(),
		UserID:      userID,
		PackageType: packageType,
		Amount:      amount,
		Reason:      reason,
		BookingID:   bookingID,
		Expiry:      expiry,
		Metadata:    model.NewMetadata(actor, now),
	}
}

var balanceColumns = map[string]string{
	constant.PaymentMethodToken: userModel.FieldTokens,
	constant.PaymentMethodBR15:  userModel.FieldBR15Balance,
	constant.PaymentMethodBR30:  userModel.FieldBR30Balance,
	constant.PaymentMethodDP20:  userModel.FieldDP20Balance,
}

var expiryColumns = map[string]string{
	constant.PaymentMethodBR15: userModel.FieldBR15Expiry,
	constant.PaymentMethodBR30: userModel.FieldBR30Expiry,
	constant.PaymentMethodDP20: userModel.FieldDP20Expiry,
}

var refundFunctions = map[string]string{
	constant.PaymentMethodToken: "add_tokens",
	constant.PaymentMethodBR15:  "refund_br15_hours",
	constant.PaymentMethodBR30:  "refund_br30_hours",
	constant.PaymentMethodDP20:  "refund_dp20_days",
}

// BalanceColumn is the users column holding the live balance of a package type.
func BalanceColumn(packageType string) (string, bool) {
	column, ok := balanceColumns[packageType]

	return column, ok
}

// ExpiryColumn is empty for tokens, which never expire.
func ExpiryColumn(packageType string) (string, bool) {
	column, ok := expiryColumns[packageType]

	return column, ok
}

func RefundFunction(packageType string) (string, bool) {
	fn, ok := refundFunctions[packageType]

	return fn, ok
}

func IsPackage(method string) bool {
	_, ok := balanceColumns[method]

	return ok
}

// Balances maps the cached aggregate on a user row to what settlement checks against.
func Balances(user userModel.User) settlement.Balances {
	return settlement.Balances{
		Tokens:     user.Tokens,
		BR15:       user.BR15Balance,
		BR30:       user.BR30Balance,
		DP20:       user.DP20Balance,
		BR15Expiry: user.BR15Expiry,
		BR30Expiry: user.BR30Expiry,
		DP20Expiry: user.DP20Expiry,
	}
}
