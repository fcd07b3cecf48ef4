package response

import (
	"encoding/json"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"excursions/shared/logger"
	"net/http"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data,omitempty"`
}

type Error struct {
	Success bool             `json:"success"`
	Error   *failure.Failure `json:"error,omitempty"`
}

type Message struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Success: true, Message: &message})
}

// WithJSON sends a response containing a JSON object under "data"
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Success: true, Data: &jsonPayload})
}

// WithBody sends payload as the whole response body.
func WithBody(writer http.ResponseWriter, code int, payload any) {
	response(writer, code, payload)
}

// WithError sends the error envelope. Anything that is not a failure.Failure is logged
// and reported as a generic internal error.
func WithError(writer http.ResponseWriter, err error) {
	fail := failure.From(err)
	if fail.Type == failure.TypeInternal {
		log.Error().Err(err).Msg("request failed with internal error")
	}

	response(writer, fail.Code, Error{Error: fail})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithError(writer, failure.TooManyRequests(constant.ResponseErrorRequestLimitExceeded))
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithError(writer, failure.Unavailable(constant.ResponseErrorPrepareShutdown))
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithError(writer, failure.Unavailable(constant.ResponseErrorUnhealthy))
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
