package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DeliveryConfig tunes digest scheduling and dispatch limits. It is loaded
// from an optional sentinel.yml and hot-reloaded on change so operators can
// shift digest hours without a restart.
type DeliveryConfig struct {
	DigestHourUTC    int    `mapstructure:"digestHourUTC"`
	WeeklyDigestDay  string `mapstructure:"weeklyDigestDay"`
	MonthlyDigestDay int    `mapstructure:"monthlyDigestDay"`
	SlackChannel     string `mapstructure:"slackChannel"`
}

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		DigestHourUTC:    6,
		WeeklyDigestDay:  "Monday",
		MonthlyDigestDay: 1,
	}
}

type DeliveryConfigHolder struct {
	current atomic.Value // holds DeliveryConfig
}

func NewDeliveryConfigHolder() (*DeliveryConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sentinel")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/sentinel")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDeliveryConfig()
	v.SetDefault("delivery.digestHourUTC", defaults.DigestHourUTC)
	v.SetDefault("delivery.weeklyDigestDay", defaults.WeeklyDigestDay)
	v.SetDefault("delivery.monthlyDigestDay", defaults.MonthlyDigestDay)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &DeliveryConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("delivery config reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *DeliveryConfigHolder) reload(v *viper.Viper) error {
	var cfg DeliveryConfig
	if err := v.UnmarshalKey("delivery", &cfg); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	h.current.Store(cfg)
	return nil
}

func (h *DeliveryConfigHolder) Current() DeliveryConfig {
	if v, ok := h.current.Load().(DeliveryConfig); ok {
		return v
	}
	return DefaultDeliveryConfig()
}

// Store replaces the held config. Used by tests.
func (h *DeliveryConfigHolder) Store(cfg DeliveryConfig) {
	h.current.Store(cfg.withDefaults())
}

func (c DeliveryConfig) withDefaults() DeliveryConfig {
	defaults := DefaultDeliveryConfig()
	if c.DigestHourUTC < 0 || c.DigestHourUTC > 23 {
		c.DigestHourUTC = defaults.DigestHourUTC
	}
	if strings.TrimSpace(c.WeeklyDigestDay) == "" {
		c.WeeklyDigestDay = defaults.WeeklyDigestDay
	}
	if c.MonthlyDigestDay < 1 || c.MonthlyDigestDay > 28 {
		c.MonthlyDigestDay = defaults.MonthlyDigestDay
	}
	return c
}
