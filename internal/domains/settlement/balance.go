package settlement

import (
	"time"

	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
)

type Balances struct {
	Tokens     float64
	BR15       float64
	BR30       float64
	DP20       int
	BR15Expiry *time.Time
	BR30Expiry *time.Time
	DP20Expiry *time.Time
}

// Available returns the live balance and expiry backing a payment method.
func (b Balances) Available(method string) (float64, *time.Time) {
	switch method {
	case constant.PaymentMethodToken:
		return b.Tokens, nil
	case constant.PaymentMethodBR15:
		return b.BR15, b.BR15Expiry
	case constant.PaymentMethodBR30:
		return b.BR30, b.BR30Expiry
	case constant.PaymentMethodDP20:
		return float64(b.DP20), b.DP20Expiry
	default:
		return 0, nil
	}
}

// CheckBalance fails when a package method cannot cover units. Cash always passes.
// A package with an expiry that is not after now counts as expired; a nil expiry never expires.
func CheckBalance(method string, units float64, balances Balances, now time.Time) error {
	switch method {
	case constant.PaymentMethodCash:
		return nil
	case constant.PaymentMethodToken, constant.PaymentMethodBR15, constant.PaymentMethodBR30, constant.PaymentMethodDP20:
	default:
		return failure.Validation("unsupported payment_method " + method)
	}

	available, expiry := balances.Available(method)

	if expiry != nil && !expiry.After(now) {
		return failure.PackageExpired(method)
	}

	if available < units {
		return failure.InsufficientBalance(method, units, available)
	}

	return nil
}
