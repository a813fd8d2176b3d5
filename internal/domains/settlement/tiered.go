package settlement

const (
	TierEarly     = "early"
	TierStandard  = "standard"
	TierOverQuota = "over_quota"
	TierLate      = "late"
)

// TieredPolicy is the free-cancellation schedule with a monthly quota.
// Cancellation does not apply it; it only backs the read-only cancellation quote.
type TieredPolicy struct {
	EarlyHours    int
	StandardHours int
	MonthlyQuota  int
}

type Evaluation struct {
	Free          bool   `json:"free"`
	RefundPercent int    `json:"refund_percent"`
	Tier          string `json:"tier"`
}

func DefaultTieredPolicy(monthlyQuota int) TieredPolicy {
	return TieredPolicy{
		EarlyHours:    48,
		StandardHours: 24,
		MonthlyQuota:  monthlyQuota,
	}
}

// Evaluate classifies a cancellation made hoursBefore the start, given how many free
// cancellations the user already used this month.
func (p TieredPolicy) Evaluate(hoursBefore, usedThisMonth int) Evaluation {
	switch {
	case hoursBefore >= p.EarlyHours:
		return Evaluation{Free: true, RefundPercent: 100, Tier: TierEarly}
	case hoursBefore >= p.StandardHours && usedThisMonth < p.MonthlyQuota:
		return Evaluation{Free: true, RefundPercent: 100, Tier: TierStandard}
	case hoursBefore >= p.StandardHours:
		return Evaluation{RefundPercent: 50, Tier: TierOverQuota}
	default:
		return Evaluation{Tier: TierLate}
	}
}
