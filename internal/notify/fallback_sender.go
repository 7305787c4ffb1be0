package notify

import (
	"context"
	"log/slog"
)

type FallbackSender struct {
	primary   MessageSender
	secondary MessageSender
	logger    *slog.Logger
}

func NewFallbackSender(primary, secondary MessageSender, logger *slog.Logger) *FallbackSender {
	return &FallbackSender{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// SendMessage возвращает ошибку основного транспорта, если оба транспорта не сработали.
// Сообщение из резервного транспорта попадёт в чат только после внешнего ретранслятора.
func (s *FallbackSender) SendMessage(ctx context.Context, text string) error {
	err := s.primary.SendMessage(ctx, text)
	if err == nil {
		return nil
	}

	s.logger.Warn("Основной транспорт недоступен, переключаемся на резервный",
		"primaryError", err,
	)

	if fallbackErr := s.secondary.SendMessage(ctx, text); fallbackErr != nil {
		s.logger.Error("Резервный транспорт не справился",
			"error", fallbackErr,
		)

		return err
	}

	s.logger.Warn("Уведомление передано в резервный транспорт и попадёт в чат только через внешний ретранслятор",
		"primaryError", err,
	)

	return nil
}
