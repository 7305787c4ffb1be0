package config

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"

	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

const DefaultPracticumEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

type Config struct {
	PracticumToken    string `mapstructure:"PRACTICUM_TOKEN"`
	PracticumEndpoint string `mapstructure:"PRACTICUM_ENDPOINT"`
	TelegramToken     string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID    string `mapstructure:"TELEGRAM_CHAT_ID"`

	RetryPeriod time.Duration `mapstructure:"RETRY_PERIOD"`

	ExternalRequestTimeout time.Duration `mapstructure:"EXTERNAL_REQUEST_TIMEOUT"`
	TelegramSendTimeout    time.Duration `mapstructure:"TELEGRAM_SEND_TIMEOUT"`
	TelegramSendInterval   time.Duration `mapstructure:"TELEGRAM_SEND_INTERVAL"`
	StatusCommandEnabled   bool          `mapstructure:"STATUS_COMMAND_ENABLED"`

	MetricsPort int    `mapstructure:"METRICS_PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	RetryCount           int           `mapstructure:"RETRY_COUNT"`
	RetryBackoff         time.Duration `mapstructure:"RETRY_BACKOFF"`
	RetryableStatusCodes []int         `mapstructure:"RETRYABLE_STATUS_CODES"`

	CBSlidingWindowSize        int           `mapstructure:"CB_SLIDING_WINDOW_SIZE"`
	CBMinimumRequiredCalls     int           `mapstructure:"CB_MINIMUM_REQUIRED_CALLS"`
	CBFailureRateThreshold     int           `mapstructure:"CB_FAILURE_RATE_THRESHOLD"`
	CBPermittedCallsInHalfOpen int           `mapstructure:"CB_PERMITTED_CALLS_IN_HALF_OPEN"`
	CBWaitDurationInOpenState  time.Duration `mapstructure:"CB_WAIT_DURATION_IN_OPEN_STATE"`

	FallbackEnabled    bool   `mapstructure:"FALLBACK_ENABLED"`
	KafkaBrokers       string `mapstructure:"KAFKA_BROKERS"`
	TopicNotifications string `mapstructure:"TOPIC_NOTIFICATIONS"`
}

// LoadConfig читает .env из рабочей директории и переменные окружения процесса.
// Переменные окружения важнее файла.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "ошибка чтения .env")
		}
	}

	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора конфигурации")
	}

	return cfg, nil
}

// Validate сообщает обо всех отсутствующих учётных данных сразу.
func (c *Config) Validate() error {
	var missing []string

	if strings.TrimSpace(c.PracticumToken) == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}

	if strings.TrimSpace(c.TelegramToken) == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	if strings.TrimSpace(c.TelegramChatID) == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	if len(missing) > 0 {
		return &domainerrors.MissingEnvError{Names: missing}
	}

	if _, err := c.TelegramChat(); err != nil {
		return err
	}

	if c.RetryPeriod <= 0 {
		return errors.Errorf("RETRY_PERIOD должен быть положительным, получено %s", c.RetryPeriod)
	}

	return nil
}

// TelegramChat разбирает TELEGRAM_CHAT_ID: числовой id чата или @имя канала.
func (c *Config) TelegramChat() (models.ChatTarget, error) {
	chat, err := models.ParseChatTarget(c.TelegramChatID)
	if err != nil {
		return models.ChatTarget{}, errors.Wrap(err, "TELEGRAM_CHAT_ID")
	}

	return chat, nil
}

// CircuitBreakerInterval - окно подсчёта ошибок circuit breaker. CB_SLIDING_WINDOW_SIZE задаётся
// в циклах опроса: API домашних работ вызывается раз в RETRY_PERIOD.
func (c *Config) CircuitBreakerInterval() time.Duration {
	return time.Duration(c.CBSlidingWindowSize) * c.RetryPeriod
}

func (c *Config) KafkaBrokerList() []string {
	var brokers []string

	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return brokers
}

func setDefaults(v *viper.Viper) {
	// Обязательные значения привязываем явно, иначе AutomaticEnv не подхватит их при Unmarshal.
	v.SetDefault("PRACTICUM_TOKEN", "")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", "")

	v.SetDefault("PRACTICUM_ENDPOINT", DefaultPracticumEndpoint)
	v.SetDefault("RETRY_PERIOD", "10m")

	v.SetDefault("EXTERNAL_REQUEST_TIMEOUT", "30s")
	v.SetDefault("TELEGRAM_SEND_TIMEOUT", "10s")
	v.SetDefault("TELEGRAM_SEND_INTERVAL", "1s")
	v.SetDefault("STATUS_COMMAND_ENABLED", true)

	v.SetDefault("METRICS_PORT", 9094)
	v.SetDefault("LOG_LEVEL", "debug")

	v.SetDefault("RETRY_COUNT", 0)
	v.SetDefault("RETRY_BACKOFF", "1s")
	v.SetDefault("RETRYABLE_STATUS_CODES", []int{408, 429, 500, 502, 503, 504})

	v.SetDefault("CB_SLIDING_WINDOW_SIZE", 10)
	v.SetDefault("CB_MINIMUM_REQUIRED_CALLS", 5)
	v.SetDefault("CB_FAILURE_RATE_THRESHOLD", 50)
	v.SetDefault("CB_PERMITTED_CALLS_IN_HALF_OPEN", 2)
	v.SetDefault("CB_WAIT_DURATION_IN_OPEN_STATE", "30m")

	v.SetDefault("FALLBACK_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "kafka:9092")
	v.SetDefault("TOPIC_NOTIFICATIONS", "homework-notifications")
}
