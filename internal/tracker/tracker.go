package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
	"github.com/central-university-dev/homework-bot/internal/homework"
)

var tracer = otel.Tracer("github.com/central-university-dev/homework-bot/internal/tracker")

type HomeworkFetcher interface {
	Fetch(ctx context.Context, cursor int64) (any, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string, kind models.NotificationKind) error
}

// Tracker выполняет циклы опроса для одной работы и владеет курсором from_date.
type Tracker struct {
	fetcher  HomeworkFetcher
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	cursor      int64
	lastSuccess time.Time
}

func NewTracker(fetcher HomeworkFetcher, notifier Notifier, cursor int64, logger *slog.Logger) *Tracker {
	metrics.SetCursor(cursor)

	return &Tracker{
		fetcher:     fetcher,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		cursor:      cursor,
		lastSuccess: time.Now(),
	}
}

func (t *Tracker) Cursor() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cursor
}

// RunCycle выполняет один проход: запрос, проверка, разбор статуса, уведомление.
// Сбои логируются и отправляются в чат, наружу ничего не возвращается.
func (t *Tracker) RunCycle(ctx context.Context) {
	if ctx.Err() != nil {
		t.logger.Info("Запрошено завершение, цикл опроса пропущен")
		return
	}

	ctx, span := tracer.Start(ctx, "tracker.cycle")
	defer span.End()

	cursor := t.Cursor()
	span.SetAttributes(attribute.Int64("cursor", cursor))

	err := t.safeCycle(ctx, cursor)
	if err == nil {
		return
	}

	if ctx.Err() != nil {
		t.logger.Info("Цикл опроса прерван завершением работы", "error", err)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	t.handleFailure(ctx, err)
}

func (t *Tracker) safeCycle(ctx context.Context, cursor int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic in poll cycle: %v", r)
		}
	}()

	return t.cycle(ctx, cursor)
}

func (t *Tracker) cycle(ctx context.Context, cursor int64) error {
	raw, err := t.fetcher.Fetch(ctx, cursor)
	if err != nil {
		return err
	}

	homeworks, err := homework.Validate(raw)
	if err != nil {
		return err
	}

	text, ok, err := homework.Resolve(homeworks)
	if err != nil {
		return err
	}

	if ok {
		// Ошибки доставки логирует notifier, курсор они не задерживают.
		_ = t.notifier.Notify(ctx, text, models.KindStatus)

		metrics.RecordCycle(metrics.CycleSuccess)
	} else {
		t.logger.Debug("Новых статусов нет", "cursor", cursor)
		metrics.RecordCycle(metrics.CycleNoUpdates)
	}

	if currentDate, found := homework.CurrentDate(raw); found {
		t.advance(currentDate)
	}

	t.mu.Lock()
	t.lastSuccess = t.now()
	t.mu.Unlock()

	return nil
}

func (t *Tracker) advance(cursor int64) {
	t.mu.Lock()
	t.cursor = cursor
	t.mu.Unlock()

	metrics.SetCursor(cursor)
	t.logger.Debug("Курсор сдвинут", "cursor", cursor)
}

func (t *Tracker) handleFailure(ctx context.Context, err error) {
	kind := domainerrors.KindOf(err)

	t.logger.Error("Сбой в работе бота",
		"kind", kind,
		"error", err,
		"cursor", t.Cursor(),
	)
	metrics.RecordCycleError(string(kind))

	_ = t.notifier.Notify(ctx, models.FailureText(err), models.KindError)
}

// Health возвращает ошибку, если за maxAge не было ни одного успешного цикла.
func (t *Tracker) Health(maxAge time.Duration) func() error {
	return func() error {
		t.mu.Lock()
		since := t.now().Sub(t.lastSuccess)
		t.mu.Unlock()

		if since > maxAge {
			return fmt.Errorf("нет успешных циклов опроса уже %s", since.Truncate(time.Second))
		}

		return nil
	}
}
