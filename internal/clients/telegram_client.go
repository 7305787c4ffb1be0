package clients

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/central-university-dev/homework-bot/internal/config"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

// Паузы между попытками getMe при старте.
var (
	connectInitialInterval = time.Second
	connectMaxInterval     = time.Minute
)

// TelegramClient доставляет сообщения в настроенный чат и отвечает на команды.
type TelegramClient struct {
	bot     *tgbotapi.BotAPI
	chat    models.ChatTarget
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewTelegramClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*TelegramClient, error) {
	chat, err := cfg.TelegramChat()
	if err != nil {
		return nil, err
	}

	return NewTelegramClientWithEndpoint(ctx, cfg.TelegramToken, tgbotapi.APIEndpoint, chat,
		cfg.TelegramSendInterval, cfg.TelegramSendTimeout, logger)
}

// NewTelegramClientWithEndpoint позволяет указать другой сервер Bot API.
// endpoint должен содержать два %s: для токена и для имени метода.
// Недоступный Bot API опрашивается повторно до отмены ctx, отклонённый токен сразу возвращает ошибку.
func NewTelegramClientWithEndpoint(
	ctx context.Context,
	token, endpoint string,
	chat models.ChatTarget,
	sendInterval, timeout time.Duration,
	logger *slog.Logger,
) (*TelegramClient, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	bot, err := connectBot(ctx, token, endpoint, &http.Client{Timeout: timeout}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка инициализации Telegram клиента")
	}

	limit := rate.Inf
	if sendInterval > 0 {
		limit = rate.Every(sendInterval)
	}

	logger.Info("Telegram клиент авторизован", "bot", bot.Self.UserName, "chat", chat.String())

	return &TelegramClient{
		bot:     bot,
		chat:    chat,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

func connectBot(
	ctx context.Context,
	token, endpoint string,
	httpClient *http.Client,
	logger *slog.Logger,
) (*tgbotapi.BotAPI, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = connectInitialInterval
	policy.MaxInterval = connectMaxInterval
	policy.MaxElapsedTime = 0

	var bot *tgbotapi.BotAPI

	connect := func() error {
		b, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
		if err != nil {
			if isTokenRejected(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		bot = b

		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Telegram Bot API недоступен, повторная попытка",
			"error", err,
			"retry_in", wait.String(),
		)
	}

	if err := backoff.RetryNotify(connect, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}

	return bot, nil
}

// isTokenRejected распознаёт ответы Bot API, которые повтор не исправит.
func isTokenRejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusNotFound
}

// SendMessage отправляет текст в настроенный чат.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chat.ID, text)
	if c.chat.IsChannel() {
		msg = tgbotapi.NewMessageToChannel(c.chat.Channel, text)
	}

	return c.send(ctx, msg)
}

func (c *TelegramClient) Reply(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (c *TelegramClient) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "ошибка ожидания лимита отправки")
	}

	msg.ReplyMarkup = statusKeyboard()

	if _, err := c.bot.Send(msg); err != nil {
		return errors.Wrap(err, "ошибка при отправке сообщения")
	}

	return nil
}

func (c *TelegramClient) SetMyCommands(_ context.Context, commands []models.BotCommand) error {
	botAPICommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		botAPICommands = append(botAPICommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(botAPICommands...)); err != nil {
		return errors.Wrap(err, "ошибка при регистрации команд")
	}

	return nil
}

func (c *TelegramClient) Chat() models.ChatTarget {
	return c.chat
}

func (c *TelegramClient) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

func statusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(string(models.CommandStatus))),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}
