package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Reasons let callers tell apart failures that share an HTTP status.
const (
	ReasonValidation          = "validation"
	ReasonUnavailable         = "unavailable"
	ReasonConflict            = "conflict"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonPackageExpired      = "package_expired"
	ReasonAlreadyCancelled    = "already_cancelled"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Validation is a bad request raised by booking rules rather than request decoding.
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
		Reason:  ReasonValidation,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// SlotConflict reports an overlapping booking on the requested room and time.
func SlotConflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  ReasonConflict,
	}
}

// Unavailable reports a date that has not been opened for booking.
func Unavailable(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  ReasonUnavailable,
	}
}

// AlreadyCancelled reports a cancel request on a booking that is already cancelled.
func AlreadyCancelled(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  ReasonAlreadyCancelled,
	}
}

// InsufficientBalance names the package that is short and by how much.
func InsufficientBalance(pkg string, required, available float64) error {
	return &Failure{
		Code:    http.StatusPaymentRequired,
		Message: fmt.Sprintf("insufficient %s balance: required %g, available %g", pkg, required, available),
		Reason:  ReasonInsufficientBalance,
		Details: map[string]any{
			"package":   pkg,
			"required":  required,
			"available": available,
			"short_by":  required - available,
		},
	}
}

// PackageExpired reports a package whose expiry is not in the future.
func PackageExpired(pkg string) error {
	return &Failure{
		Code:    http.StatusPaymentRequired,
		Message: pkg + " package has expired",
		Reason:  ReasonPackageExpired,
		Details: map[string]any{
			"package": pkg,
		},
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason of an error interface, empty when it carries none.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}

// GetDetails returns the details of an error interface.
func GetDetails(err error) map[string]any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}

func IsConflict(err error) bool {
	return GetReason(err) == ReasonConflict
}

func IsUnavailable(err error) bool {
	return GetReason(err) == ReasonUnavailable
}
