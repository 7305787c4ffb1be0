package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/central-university-dev/homework-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

// MessageSender доставляет текст в отслеживаемый чат.
type MessageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// Notifier подавляет сообщение, совпадающее с последним доставленным сообщением того же вида.
// Статусы и ошибки отслеживаются независимо.
type Notifier struct {
	sender MessageSender
	logger *slog.Logger

	mu       sync.RWMutex
	lastSent map[models.NotificationKind]string
}

func NewNotifier(sender MessageSender, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		logger:   logger,
		lastSent: make(map[models.NotificationKind]string),
	}
}

// Notify возвращает nil для подавленного повтора и *errors.DeliveryError при сбое отправки.
// Недоставленное сообщение не запоминается, поэтому следующий вызов с тем же текстом считается новым.
func (n *Notifier) Notify(ctx context.Context, text string, kind models.NotificationKind) error {
	if last, ok := n.last(kind); ok && last == text {
		n.logger.Debug("Повторное уведомление подавлено",
			"kind", kind,
			"text", text,
		)
		metrics.RecordNotification(string(kind), metrics.NotificationSuppressed)

		return nil
	}

	if err := n.sender.SendMessage(ctx, text); err != nil {
		n.logger.Error("Уведомление не доставлено",
			"kind", kind,
			"text", text,
			"error", err,
		)
		metrics.RecordNotification(string(kind), metrics.NotificationFailed)

		return &domainerrors.DeliveryError{Cause: err}
	}

	n.mu.Lock()
	n.lastSent[kind] = text
	n.mu.Unlock()

	n.logger.Debug("Бот отправил сообщение",
		"kind", kind,
		"text", text,
	)
	metrics.RecordNotification(string(kind), metrics.NotificationSent)

	return nil
}

// LastStatus возвращает последний доставленный статус.
func (n *Notifier) LastStatus() (string, bool) {
	return n.last(models.KindStatus)
}

func (n *Notifier) last(kind models.NotificationKind) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	text, ok := n.lastSent[kind]

	return text, ok
}
