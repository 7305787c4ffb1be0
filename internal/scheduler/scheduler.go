package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/go-faster/errors"
)

type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// Scheduler запускает циклы опроса с фиксированным интервалом.
// Первый цикл стартует сразу, новый не начинается, пока идёт предыдущий.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    CycleRunner
	logger    *slog.Logger
	interval  time.Duration
	cancel    context.CancelFunc
}

func NewScheduler(runner CycleRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	return &Scheduler{
		scheduler: scheduler,
		runner:    runner,
		logger:    logger,
		interval:  interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.Errorf("интервал опроса должен быть положительным, получено %s", s.interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.Info("Запуск планировщика опроса",
		"interval", s.interval.String(),
	)

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.logger.Debug("Цикл опроса начат")
		s.runner.RunCycle(ctx)
	})
	if err != nil {
		cancel()
		return errors.Wrap(err, "ошибка при настройке планировщика")
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop отменяет текущий цикл и ждёт остановки планировщика.
func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика опроса")

	if s.cancel != nil {
		s.cancel()
	}

	s.scheduler.Stop()
}
