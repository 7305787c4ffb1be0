package errors_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
)

func TestKindOf(t *testing.T) {
	params := domainerrors.Params{"from_date": "1700000000"}

	tests := []struct {
		name string
		err  error
		want domainerrors.Kind
	}{
		{"connectivity", &domainerrors.ConnectivityError{Params: params, Cause: io.EOF}, domainerrors.KindConnectivity},
		{"status", &domainerrors.APIStatusError{StatusCode: 503, Params: params}, domainerrors.KindAPIStatus},
		{"payload", &domainerrors.APIPayloadError{Key: "code", Value: "not_authenticated"}, domainerrors.KindAPIPayload},
		{"schema", &domainerrors.SchemaError{Reason: "missing homeworks key"}, domainerrors.KindSchema},
		{"unknown status", &domainerrors.UnknownStatusError{Status: "archived"}, domainerrors.KindUnknownStatus},
		{"delivery", &domainerrors.DeliveryError{Cause: io.EOF}, domainerrors.KindDelivery},
		{"wrapped", errors.Wrap(&domainerrors.SchemaError{Reason: "x"}, "validate"), domainerrors.KindSchema},
		{"plain", fmt.Errorf("boom"), domainerrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainerrors.KindOf(tt.err))
		})
	}
}

func TestMissingEnvError_Message(t *testing.T) {
	err := &domainerrors.MissingEnvError{Names: []string{"PRACTICUM_TOKEN", "TELEGRAM_CHAT_ID"}}

	assert.Equal(t, "Missing required environment variables: PRACTICUM_TOKEN, TELEGRAM_CHAT_ID", err.Error())
}

func TestConnectivityError_UnwrapsCause(t *testing.T) {
	err := &domainerrors.ConnectivityError{Params: domainerrors.Params{"from_date": "1"}, Cause: io.ErrUnexpectedEOF}

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "from_date=1")
}

func TestSchemaError_Is(t *testing.T) {
	err := errors.Wrap(&domainerrors.SchemaError{Reason: "missing homeworks key"}, "validate")

	assert.ErrorIs(t, err, &domainerrors.SchemaError{})
	assert.ErrorIs(t, err, &domainerrors.SchemaError{Reason: "missing homeworks key"})
	assert.NotErrorIs(t, err, &domainerrors.SchemaError{Reason: "missing field status"})
}
