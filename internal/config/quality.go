package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// QualityConfig maps label quality grades to their default color-difference
// tolerance (delta E).
type QualityConfig struct {
	Tolerances    map[string]float64 `mapstructure:"tolerances"`
	MaxSpotColors int                `mapstructure:"maxSpotColors"`
}

func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		Tolerances: map[string]float64{
			"best": 1.5,
			"high": 2.0,
		},
		MaxSpotColors: 12,
	}
}

// Tolerance returns the default tolerance for grade. Grades without an entry
// have no default.
func (c QualityConfig) Tolerance(grade string) (float64, bool) {
	value, ok := c.Tolerances[strings.ToLower(strings.TrimSpace(grade))]
	return value, ok
}

type QualityConfigHolder struct {
	current atomic.Value // holds QualityConfig
}

func NewStaticQualityConfigHolder(cfg QualityConfig) *QualityConfigHolder {
	holder := &QualityConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewQualityConfigHolder(log *zap.Logger) (*QualityConfigHolder, error) {
	log = log.Named("quality.config")
	v := viper.New()

	v.SetConfigName("quality")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/labelworks")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LABELWORKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQualityConfig()
	v.SetDefault("quality.tolerances", defaults.Tolerances)
	v.SetDefault("quality.maxSpotColors", defaults.MaxSpotColors)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	cfg, err := readQualityConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticQualityConfigHolder(cfg)
	if !fileFound {
		log.Info("quality config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := readQualityConfig(v)
		if err != nil {
			log.Warn("quality config reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("quality config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *QualityConfigHolder) Get() QualityConfig {
	return h.current.Load().(QualityConfig)
}

func readQualityConfig(v *viper.Viper) (QualityConfig, error) {
	var cfg QualityConfig
	if err := v.UnmarshalKey("quality", &cfg); err != nil {
		return QualityConfig{}, err
	}
	normalized := make(map[string]float64, len(cfg.Tolerances))
	for grade, value := range cfg.Tolerances {
		normalized[strings.ToLower(strings.TrimSpace(grade))] = value
	}
	cfg.Tolerances = normalized
	if err := validateQualityConfig(cfg); err != nil {
		return QualityConfig{}, err
	}
	return cfg, nil
}

func validateQualityConfig(cfg QualityConfig) error {
	for grade, value := range cfg.Tolerances {
		if grade == "" {
			return errors.New("quality.tolerances contains an empty grade")
		}
		if value <= 0 {
			return fmt.Errorf("quality.tolerances.%s must be positive", grade)
		}
	}
	if cfg.MaxSpotColors <= 0 {
		return errors.New("quality.maxSpotColors must be positive")
	}
	return nil
}
