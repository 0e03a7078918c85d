package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend" validate:"required|in:file,postgres"`
	FilePath    string `yaml:"filePath"`
	DatabaseURL string `yaml:"databaseUrl"`
}

type AnalyticsConfig struct {
	BaseURL      string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Token        string        `yaml:"token" validate:"required"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"required|min:1"`
	PollTimeout  time.Duration `yaml:"pollTimeout" validate:"required|min:1"`
}

type TelegramConfig struct {
	BaseURL string `yaml:"baseUrl" validate:"required|fullUrl"`
	Token   string `yaml:"token" validate:"required"`
}

type ReportsConfig struct {
	Timezone           string        `yaml:"timezone" validate:"required"`
	DayStartHour       int           `yaml:"dayStartHour" validate:"uint|max:23"`
	WeeklyWeekday      int           `yaml:"weeklyWeekday" validate:"uint|max:6"`
	NetRevenueShare    float64       `yaml:"netRevenueShare" validate:"required"`
	MinChatterMessages int           `yaml:"minChatterMessages" validate:"uint"`
	TransactionLimit   int           `yaml:"transactionLimit" validate:"required|min:1"`
	AlertPollInterval  time.Duration `yaml:"alertPollInterval" validate:"required|min:1"`
	AlertMuteWindow    time.Duration `yaml:"alertMuteWindow" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Storage   StorageConfig   `yaml:"storage"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Reports   ReportsConfig   `yaml:"reports"`
	Logger    LoggerConfig    `yaml:"logger"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
