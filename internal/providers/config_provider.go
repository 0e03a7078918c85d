package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"valeod/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("telegram.token", "TG_BOT_TOKEN")
	viper.BindEnv("analytics.token", "OM_API_TOKEN")
	viper.BindEnv("analytics.baseUrl", "OM_BASE_URL")
	viper.BindEnv("storage.databaseUrl", "DATABASE_URL")
	viper.BindEnv("storage.backend", "VALEOD_STORAGE_BACKEND")
	viper.BindEnv("logger.level", "VALEOD_LOG_LEVEL")
	viper.BindEnv("reports.alertPollInterval", "VALEOD_ALERT_POLL_INTERVAL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	// The backend follows DATABASE_URL unless pinned explicitly, same
	// precedence the bot has always had.
	if conf.Storage.Backend == "" {
		if conf.Storage.DatabaseURL != "" {
			conf.Storage.Backend = "postgres"
		} else {
			conf.Storage.Backend = "file"
		}
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ValeoDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
