package clients

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/central-university-dev/homework-bot/internal/common/httputil"
	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	"github.com/central-university-dev/homework-bot/internal/config"
	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

var tracer = otel.Tracer("github.com/central-university-dev/homework-bot/internal/clients")

// payloadErrorKeys проверяются по порядку, побеждает первый найденный ключ.
var payloadErrorKeys = []string{models.FieldErrorCode, models.FieldError}

type PracticumClient struct {
	client   *resty.Client
	token    string
	endpoint string
	logger   *slog.Logger
}

func NewPracticumClient(cfg *config.Config, logger *slog.Logger) *PracticumClient {
	endpoint := cfg.PracticumEndpoint
	if endpoint == "" {
		endpoint = config.DefaultPracticumEndpoint
	}

	return &PracticumClient{
		client:   httputil.CreateResilientHTTPClient(cfg, logger, "practicum"),
		token:    cfg.PracticumToken,
		endpoint: endpoint,
		logger:   logger,
	}
}

// Fetch запрашивает статусы, изменившиеся с момента cursor, и возвращает декодированное тело как есть.
// Проверка структуры остаётся за вызывающим.
func (c *PracticumClient) Fetch(ctx context.Context, cursor int64) (any, error) {
	ctx, span := tracer.Start(ctx, "practicum.fetch",
		trace.WithAttributes(attribute.Int64("from_date", cursor)),
	)
	defer span.End()

	params := domainerrors.Params{models.FieldFromDate: strconv.FormatInt(cursor, 10)}

	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "OAuth "+c.token).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(c.endpoint)
	if err != nil {
		var httpErr *domainerrors.HTTPError
		if errors.As(err, &httpErr) {
			metrics.RecordFetch(strconv.Itoa(httpErr.StatusCode), time.Since(start))
			return nil, failSpan(span, &domainerrors.APIStatusError{StatusCode: httpErr.StatusCode, Params: params})
		}

		metrics.RecordFetch("transport_error", time.Since(start))

		return nil, failSpan(span, &domainerrors.ConnectivityError{Params: params, Cause: err})
	}

	metrics.RecordFetch(strconv.Itoa(resp.StatusCode()), time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if !resp.IsSuccess() {
		return nil, failSpan(span, &domainerrors.APIStatusError{StatusCode: resp.StatusCode(), Params: params})
	}

	body, err := decodeJSON(resp.Body())
	if err != nil {
		return nil, failSpan(span, &domainerrors.SchemaError{Reason: "invalid JSON body: " + err.Error()})
	}

	if obj, ok := body.(map[string]any); ok {
		for _, key := range payloadErrorKeys {
			if value, found := obj[key]; found {
				return nil, failSpan(span, &domainerrors.APIPayloadError{Key: key, Value: value, Params: params})
			}
		}
	}

	c.logger.Debug("API домашних работ ответил",
		"from_date", cursor,
		"status", resp.StatusCode(),
		"duration", time.Since(start).String(),
	)

	return body, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
