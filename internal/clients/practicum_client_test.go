package clients_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/homework-bot/internal/clients"
	"github.com/central-university-dev/homework-bot/internal/config"
	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
)

func newPracticumConfig(endpoint string) *config.Config {
	return &config.Config{
		PracticumToken:             "secret",
		PracticumEndpoint:          endpoint,
		ExternalRequestTimeout:     2 * time.Second,
		RetryableStatusCodes:       []int{500, 502, 503, 504},
		CBSlidingWindowSize:        100,
		CBMinimumRequiredCalls:     100,
		CBFailureRateThreshold:     100,
		CBPermittedCallsInHalfOpen: 10,
		CBWaitDurationInOpenState:  10 * time.Second,
	}
}

func newPracticumClient(t *testing.T, handler http.HandlerFunc) *clients.PracticumClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return clients.NewPracticumClient(newPracticumConfig(server.URL+"/api/user_api/homework_statuses/"), logger)
}

func TestPracticumClient_Fetch_SendsAuthAndCursor(t *testing.T) {
	var gotAuth, gotFromDate, gotPath string

	client := newPracticumClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFromDate = r.URL.Query().Get("from_date")
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks": [{"homework_name": "hw1", "status": "approved"}], "current_date": 1700000100}`))
	})

	body, err := client.Fetch(context.Background(), 1700000000)
	require.NoError(t, err)

	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "1700000000", gotFromDate)
	assert.Equal(t, "/api/user_api/homework_statuses/", gotPath)

	want := map[string]any{
		"homeworks": []any{
			map[string]any{"homework_name": "hw1", "status": "approved"},
		},
		"current_date": int64(1700000100),
	}
	assert.Equal(t, want, body)
}

func TestPracticumClient_Fetch_ReturnsNonObjectBodyUnchanged(t *testing.T) {
	client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1, 2.5, "x", true, null]`))
	})

	body, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, []any{int64(1), 2.5, "x", true, nil}, body)
}

func TestPracticumClient_Fetch_NonSuccessStatus(t *testing.T) {
	client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Fetch(context.Background(), 42)
	require.Error(t, err)

	var statusErr *domainerrors.APIStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, domainerrors.Params{"from_date": "42"}, statusErr.Params)
}

func TestPracticumClient_Fetch_ServerErrorIsStatusError(t *testing.T) {
	client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Fetch(context.Background(), 42)

	var statusErr *domainerrors.APIStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestPracticumClient_Fetch_PayloadError(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantKey   string
		wantValue any
	}{
		{"code", `{"code": "not_authenticated"}`, "code", "not_authenticated"},
		{"error", `{"error": {"error": "Wrong from_date format"}}`, "error", map[string]any{"error": "Wrong from_date format"}},
		{"code wins over error", `{"error": "e", "code": "c"}`, "code", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Fetch(context.Background(), 7)

			var payloadErr *domainerrors.APIPayloadError
			require.ErrorAs(t, err, &payloadErr)
			assert.Equal(t, tt.wantKey, payloadErr.Key)
			assert.Equal(t, tt.wantValue, payloadErr.Value)
			assert.Equal(t, domainerrors.Params{"from_date": "7"}, payloadErr.Params)
		})
	}
}

func TestPracticumClient_Fetch_InvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html page", `<html>maintenance</html>`},
		{"trailing value", `{"homeworks":[]} {"code":"x"}`},
		{"trailing garbage", `{"homeworks":[]} garbage`},
		{"truncated object", `{"homeworks":[`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			body, err := client.Fetch(context.Background(), 0)

			var schemaErr *domainerrors.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, schemaErr.Reason, "invalid JSON body")
			assert.Nil(t, body)
		})
	}
}

func TestPracticumClient_Fetch_TrailingWhitespaceIsAccepted(t *testing.T) {
	client := newPracticumClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"homeworks\": []}\n  \t"))
	})

	body, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"homeworks": []any{}}, body)
}

func TestPracticumClient_Fetch_ConnectivityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := clients.NewPracticumClient(newPracticumConfig(url), slog.New(slog.NewTextHandler(os.Stdout, nil)))

	_, err := client.Fetch(context.Background(), 99)

	var connErr *domainerrors.ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domainerrors.Params{"from_date": "99"}, connErr.Params)
	assert.Error(t, connErr.Cause)
}

func TestPracticumClient_Fetch_Timeout(t *testing.T) {
	client := newPracticumClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, 1)

	var connErr *domainerrors.ConnectivityError
	require.ErrorAs(t, err, &connErr)
}

func TestPracticumClient_Fetch_OpenBreakerIsConnectivityError(t *testing.T) {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	cfg := newPracticumConfig(server.URL)
	cfg.RetryPeriod = 10 * time.Millisecond
	cfg.CBSlidingWindowSize = 10
	cfg.CBMinimumRequiredCalls = 2
	cfg.CBFailureRateThreshold = 50
	cfg.CBWaitDurationInOpenState = time.Minute

	client := clients.NewPracticumClient(cfg, slog.New(slog.NewTextHandler(os.Stdout, nil)))

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), 5)

		var statusErr *domainerrors.APIStatusError
		require.ErrorAs(t, err, &statusErr)
	}

	_, err := client.Fetch(context.Background(), 5)

	var connErr *domainerrors.ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, int32(2), hits.Load())
}
