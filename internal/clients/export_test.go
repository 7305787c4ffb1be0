package clients

import "time"

// SetConnectBackoff уменьшает паузы между попытками подключения и возвращает функцию отката.
func SetConnectBackoff(initial, maxInterval time.Duration) func() {
	prevInitial, prevMax := connectInitialInterval, connectMaxInterval
	connectInitialInterval, connectMaxInterval = initial, maxInterval

	return func() {
		connectInitialInterval, connectMaxInterval = prevInitial, prevMax
	}
}
