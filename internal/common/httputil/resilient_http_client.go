package httputil

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	"github.com/central-university-dev/homework-bot/internal/config"
	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
)

type ResilientHTTPClient struct {
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *slog.Logger
	serviceName    string
}

// CreateResilientHTTPClient возвращает resty клиент, транспорт которого защищён circuit breaker.
// Повторы выключены, пока cfg.RetryCount не положителен.
func CreateResilientHTTPClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)

	if cfg.RetryCount > 0 {
		client.SetRetryCount(cfg.RetryCount)
		client.SetRetryWaitTime(cfg.RetryBackoff)
		client.SetRetryMaxWaitTime(cfg.RetryBackoff * 5)

		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, gobreaker.ErrOpenState)
			}

			for _, status := range cfg.RetryableStatusCodes {
				if r.StatusCode() == status {
					return true
				}
			}

			return false
		})
	}

	circuitBreakerSettings := gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: bounded config value
		Interval:    cfg.CircuitBreakerInterval(),
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: bounded config value
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Состояние circuit breaker изменилось",
				"service", serviceName,
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.SetCircuitBreakerState(serviceName, to.String())
		},
	}

	resilientClient := &ResilientHTTPClient{
		circuitBreaker: gobreaker.NewCircuitBreaker(circuitBreakerSettings),
		logger:         logger,
		serviceName:    serviceName,
	}

	client.SetTransport(&CircuitBreakerTransport{
		resilientClient:   resilientClient,
		originalTransport: http.DefaultTransport,
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.Request.Attempt > 1 {
			logger.Info("Повторная попытка HTTP запроса",
				"service", serviceName,
				"url", resp.Request.URL,
				"attempt", resp.Request.Attempt,
				"status", resp.StatusCode(),
			)
		}

		return nil
	})

	return client
}

type CircuitBreakerTransport struct {
	resilientClient   *ResilientHTTPClient
	originalTransport http.RoundTripper
}

// RoundTrip засчитывает breaker'у ошибки транспорта и ответы 5xx.
// 5xx возвращается как *errors.HTTPError, чтобы вызывающий видел код ответа.
func (t *CircuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.resilientClient.circuitBreaker.Execute(func() (interface{}, error) {
		resp, err := t.originalTransport.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, &domainerrors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			t.resilientClient.logger.Warn("Circuit breaker открыт, запрос отклонён",
				"service", t.resilientClient.serviceName,
				"url", req.URL.String(),
			)
		}

		return nil, err
	}

	return result.(*http.Response), nil
}
