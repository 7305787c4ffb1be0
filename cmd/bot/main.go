package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"

	"github.com/central-university-dev/homework-bot/internal/clients"
	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	"github.com/central-university-dev/homework-bot/internal/common/middleware"
	"github.com/central-university-dev/homework-bot/internal/config"
	"github.com/central-university-dev/homework-bot/internal/notify"
	"github.com/central-university-dev/homework-bot/internal/scheduler"
	"github.com/central-university-dev/homework-bot/internal/telegram"
	"github.com/central-university-dev/homework-bot/internal/tracker"
	"github.com/central-university-dev/homework-bot/pkg"
)

// healthStaleCycles - сколько периодов опроса может пройти без успешного цикла, прежде чем /health начнёт падать.
const healthStaleCycles = 3

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		pkg.NewLogger(os.Stdout, "").Log(context.Background(), pkg.LevelCritical, "Не удалось загрузить конфигурацию",
			"error", err,
		)
		os.Exit(1)
	}

	appLogger := pkg.NewLogger(os.Stdout, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		appLogger.Log(context.Background(), pkg.LevelCritical, "Некорректная конфигурация",
			"error", err,
		)
		os.Exit(1)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Log(context.Background(), pkg.LevelCritical, "Бот остановлен с ошибкой",
			"error", err,
		)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telegramClient, err := clients.NewTelegramClient(ctx, cfg, appLogger)
	if err != nil {
		if ctx.Err() != nil {
			appLogger.Info("Получен сигнал остановки до подключения к Telegram")
			return nil
		}

		return errors.Wrap(err, "ошибка создания Telegram клиента")
	}

	setupTelegramCommands(ctx, telegramClient, appLogger)

	sender, senderCloser := notify.NewSenderFactory(cfg, appLogger).CreateSender(telegramClient)
	notifier := notify.NewNotifier(sender, appLogger)

	practicumClient := clients.NewPracticumClient(cfg, appLogger)
	homeworkTracker := tracker.NewTracker(practicumClient, notifier, time.Now().Unix(), appLogger)

	var (
		metricsServer *metrics.MetricsServer
		metricsErr    chan error
	)

	if cfg.MetricsPort > 0 {
		metricsServer = metrics.NewMetricsServer(cfg.MetricsPort,
			homeworkTracker.Health(healthStaleCycles*cfg.RetryPeriod+cfg.ExternalRequestTimeout), appLogger,
			middleware.NewMetricsMiddleware("/metrics", "/health").Middleware,
		)
		metricsErr = make(chan error, 1)

		go func() {
			metricsErr <- metricsServer.Start(ctx)
		}()
	}

	pollScheduler := scheduler.NewScheduler(homeworkTracker, cfg.RetryPeriod, appLogger)
	if err := pollScheduler.Start(ctx); err != nil {
		return multierr.Append(err, closeSender(senderCloser))
	}

	var poller *telegram.Poller
	if cfg.StatusCommandEnabled {
		poller = telegram.NewPoller(telegramClient, notifier, telegramClient.Chat(), appLogger)
		poller.Start(ctx)
	}

	appLogger.Info("Бот проверки домашних работ запущен",
		"retry_period", cfg.RetryPeriod.String(),
		"status_command", cfg.StatusCommandEnabled,
		"fallback", senderCloser != nil,
	)

	var runErr error

	select {
	case <-ctx.Done():
		appLogger.Info("Получен сигнал завершения")
	case err := <-metricsErr:
		runErr = err
		metricsErr = nil
	}

	stop()

	return multierr.Append(runErr, shutdown(pollScheduler, poller, metricsServer, metricsErr, senderCloser, appLogger))
}

func setupTelegramCommands(ctx context.Context, telegramClient *clients.TelegramClient, appLogger *slog.Logger) {
	if err := telegramClient.SetMyCommands(ctx, telegram.Commands); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота зарегистрированы")
	}
}

func shutdown(
	pollScheduler *scheduler.Scheduler,
	poller *telegram.Poller,
	metricsServer *metrics.MetricsServer,
	metricsErr <-chan error,
	senderCloser io.Closer,
	appLogger *slog.Logger,
) error {
	pollScheduler.Stop()

	if poller != nil {
		poller.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error

	// nil-канал означает, что сервер выключен или уже завершился.
	if metricsErr != nil {
		select {
		case serveErr := <-metricsErr:
			err = multierr.Append(err, serveErr)
		case <-shutdownCtx.Done():
			err = multierr.Append(err, metricsServer.Stop(context.Background()))
		}
	}

	err = multierr.Append(err, closeSender(senderCloser))

	if err != nil {
		appLogger.Error("Завершение работы прошло с ошибками", "error", err)
	} else {
		appLogger.Info("Бот проверки домашних работ остановлен")
	}

	return err
}

func closeSender(closer io.Closer) error {
	if closer == nil {
		return nil
	}

	if err := closer.Close(); err != nil {
		return errors.Wrap(err, "ошибка при закрытии резервного отправителя")
	}

	return nil
}
