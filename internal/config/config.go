package config

import (
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Report struct {
		// пациентов в одном файле ведомости
		BatchSize int `mapstructure:"batch_size"`
	} `mapstructure:"report"`

	Schedule struct {
		CallList        string `mapstructure:"call_list"`
		MissingAppendix string `mapstructure:"missing_appendix"`
		DailyReport     string `mapstructure:"daily_report"`
	} `mapstructure:"schedule"`
}

func Load(path string) (Config, error) {
	// .env рядом с бинарём, если есть
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("report.batch_size", 21)
	v.SetDefault("schedule.call_list", "0 9 * * *")
	v.SetDefault("schedule.missing_appendix", "0 9 * * *")
	v.SetDefault("schedule.daily_report", "0 8 * * *")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
