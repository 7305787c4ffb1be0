package models

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// ChatTarget - чат для уведомлений: числовой id или @имя канала.
type ChatTarget struct {
	ID      int64
	Channel string
}

func ParseChatTarget(raw string) (ChatTarget, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "@") && len(raw) > 1 {
		return ChatTarget{Channel: raw}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return ChatTarget{}, errors.Errorf("ожидался числовой id чата или @имя канала, получено %q", raw)
	}

	return ChatTarget{ID: id}, nil
}

func (c ChatTarget) IsChannel() bool {
	return c.Channel != ""
}

func (c ChatTarget) String() string {
	if c.IsChannel() {
		return c.Channel
	}

	return strconv.FormatInt(c.ID, 10)
}
