package constant

const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

// Payment methods. Every method except cash draws on a balance held on the user row.
const (
	PaymentMethodCash  = "cash"
	PaymentMethodToken = "token"
	PaymentMethodBR15  = "br15"
	PaymentMethodBR30  = "br30"
	PaymentMethodDP20  = "dp20"
)

const (
	BookingTypeHourly  = "hourly"
	BookingTypeDaily   = "daily"
	BookingTypeMonthly = "monthly"
)

// Allowed moves between these are listed in the booking model.
const (
	BookingStatusPending       = "pending"
	BookingStatusToBeConfirmed = "to_be_confirmed"
	BookingStatusConfirmed     = "confirmed"
	BookingStatusRescheduled   = "rescheduled"
	BookingStatusCancelled     = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const EquipmentProjector = "projector"
