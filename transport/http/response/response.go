package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/logger"
)

// Data, Error and Message are the three envelopes every endpoint answers with.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error.Reason is a stable machine readable code such as "conflict" or "insufficient_balance".
type Error struct {
	Error   *string        `json:"error,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps the failure code to the status. Plain errors become 500.
func WithError(writer http.ResponseWriter, err error) {
	message := err.Error()

	write(writer, failure.GetCode(err), Error{
		Error:   &message,
		Reason:  failure.GetReason(err),
		Details: failure.GetDetails(err),
	})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// write encodes before touching the header so an encoding failure can still become a 500.
func write(writer http.ResponseWriter, code int, payload any) {
	var body bytes.Buffer

	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := body.WriteTo(writer); err != nil {
		logger.ErrorWithStack(err)
	}
}
