package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

const (
	replyTimeout       = 10 * time.Second
	updatesLongPollSec = 60
)

const (
	startReply      = "Бот проверки домашних работ запущен. Каждое изменение статуса ревью будет приходить сюда."
	noStatusReply   = "Изменений статуса ревью пока не было."
	unknownReply    = "Неизвестная команда. Отправьте /help, чтобы увидеть список команд."
	helpReplyHeader = "Доступные команды:"
)

// Commands - меню бота, регистрируемое при старте.
var Commands = []models.BotCommand{
	{Command: "status", Description: "Последний статус ревью"},
	{Command: "help", Description: "Список доступных команд"},
	{Command: "start", Description: "Проверить, что бот работает"},
}

type TelegramAPI interface {
	Reply(ctx context.Context, chatID int64, text string) error
	GetBot() *tgbotapi.BotAPI
}

type StatusSource interface {
	LastStatus() (string, bool)
}

// Poller отвечает на команды из отслеживаемого чата. Сообщения из других чатов игнорируются.
type Poller struct {
	telegram TelegramAPI
	statuses StatusSource
	chat     models.ChatTarget
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(telegram TelegramAPI, statuses StatusSource, chat models.ChatTarget, logger *slog.Logger) *Poller {
	return &Poller{
		telegram: telegram,
		statuses: statuses,
		chat:     chat,
		logger:   logger,
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Запуск Telegram поллера")

	bot := p.telegram.GetBot()
	if bot == nil {
		p.logger.Error("Не удалось получить доступ к API бота, команды отключены")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesLongPollSec

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	updates := bot.GetUpdatesChan(u)

	go func() {
		defer close(done)
		p.Run(ctx, updates)
	}()
}

// Run обрабатывает обновления, пока не отменён ctx или не закрыт канал.
func (p *Poller) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			p.processUpdate(ctx, &update)
		}
	}
}

func (p *Poller) Stop() {
	p.logger.Info("Остановка Telegram поллера")

	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	if bot := p.telegram.GetBot(); bot != nil {
		bot.StopReceivingUpdates()
	}

	cancel()
	<-done
}

func (p *Poller) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}

	if msg == nil || msg.Chat == nil {
		return
	}

	name, ok := commandName(msg)
	if !ok {
		return
	}

	if !p.isTrackedChat(msg.Chat) {
		p.logger.Debug("Команда из чужого чата проигнорирована",
			"chat_id", msg.Chat.ID,
			"command", name,
		)

		return
	}

	command := models.Command{
		Type:   models.ParseCommandType(name),
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		command.UserID = msg.From.ID
	}

	p.logger.Info("Получена команда",
		"chat_id", command.ChatID,
		"user_id", command.UserID,
		"command", command.Type,
	)
	metrics.RecordUserCommand(string(command.Type))

	response := p.HandleCommand(command)

	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	if err := p.telegram.Reply(ctx, command.ChatID, response); err != nil {
		p.logger.Error("Ошибка при ответе на команду",
			"error", err,
			"chat_id", command.ChatID,
			"command", command.Type,
		)
	}
}

// isTrackedChat сравнивает по числовому id, а для канала по username.
func (p *Poller) isTrackedChat(chat *tgbotapi.Chat) bool {
	if p.chat.IsChannel() {
		return chat.UserName != "" && strings.EqualFold("@"+chat.UserName, p.chat.Channel)
	}

	return chat.ID == p.chat.ID
}

// HandleCommand формирует текст ответа на команду.
func (p *Poller) HandleCommand(command models.Command) string {
	switch command.Type {
	case models.CommandStart:
		return startReply
	case models.CommandHelp:
		return helpText()
	case models.CommandStatus:
		if status, ok := p.statuses.LastStatus(); ok {
			return status
		}

		return noStatusReply
	default:
		return unknownReply
	}
}

func helpText() string {
	var b strings.Builder

	b.WriteString(helpReplyHeader)

	for _, cmd := range Commands {
		b.WriteString("\n/")
		b.WriteString(cmd.Command)
		b.WriteString(" - ")
		b.WriteString(cmd.Description)
	}

	return b.String()
}

// commandName возвращает команду с ведущим слешем и без суффикса @bot.
func commandName(msg *tgbotapi.Message) (string, bool) {
	if msg.IsCommand() {
		return "/" + msg.Command(), true
	}

	fields := strings.Fields(msg.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}

	name, _, _ := strings.Cut(fields[0], "@")

	return name, true
}
