package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// Kind классифицирует ошибку цикла опроса.
type Kind string

const (
	KindConnectivity  Kind = "connectivity"
	KindAPIStatus     Kind = "api_status"
	KindAPIPayload    Kind = "api_payload"
	KindSchema        Kind = "schema"
	KindUnknownStatus Kind = "unknown_status"
	KindDelivery      Kind = "delivery"
	KindInternal      Kind = "internal"
)

// KindOf возвращает Kind первой доменной ошибки в цепочке err.
func KindOf(err error) Kind {
	var (
		connErr    *ConnectivityError
		statusErr  *APIStatusError
		payloadErr *APIPayloadError
		schemaErr  *SchemaError
		unknownErr *UnknownStatusError
		deliverErr *DeliveryError
	)

	switch {
	case errors.As(err, &connErr):
		return KindConnectivity
	case errors.As(err, &statusErr):
		return KindAPIStatus
	case errors.As(err, &payloadErr):
		return KindAPIPayload
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &unknownErr):
		return KindUnknownStatus
	case errors.As(err, &deliverErr):
		return KindDelivery
	default:
		return KindInternal
	}
}

// Params - параметры запроса, завершившегося ошибкой.
type Params map[string]string

func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+p[k])
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

type ConnectivityError struct {
	Params Params
	Cause  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("request to homework API failed: %v, request params: %s", e.Cause, e.Params)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Cause
}

type APIStatusError struct {
	StatusCode int
	Params     Params
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("homework API responded with status %d, request params: %s", e.StatusCode, e.Params)
}

type APIPayloadError struct {
	Key    string
	Value  any
	Params Params
}

func (e *APIPayloadError) Error() string {
	return fmt.Sprintf("homework API reported an error %s=%v, request params: %s", e.Key, e.Value, e.Params)
}

type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return e.Reason
}

func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q in API response", e.Status)
}

type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("message was not delivered: %v", e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// MissingEnvError фатальна: без этих переменных процесс не запустится.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return "Missing required environment variables: " + strings.Join(e.Names, ", ")
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}
