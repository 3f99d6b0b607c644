// Package config loads tracker tuning from file and environment.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/LdDl/blobtrack/mot"
)

const (
	// EnvPrefix is prefix of environment overrides, e.g. BLOBTRACK_MAX_CONSECUTIVE_MISSES
	EnvPrefix = "BLOBTRACK"
	// EnvConfigPath names a config file when no explicit path is given
	EnvConfigPath = "BLOBTRACK_CONFIG"
	// DefaultConfigName is looked up in the working directory (any viper-supported extension)
	DefaultConfigName = "blobtrack"
)

// Keys of recognized options
const (
	KeyMaxConsecutiveMisses = "max_consecutive_misses"
	KeyMatchCostThreshold   = "match_cost_threshold"
	KeyHistoryWindow        = "history_window"
	KeyPositionWeight       = "position_weight"
	KeySizeWeight           = "size_weight"
	KeyAppearanceWeight     = "appearance_weight"
	KeyIoUWeight            = "iou_weight"
	KeyAppearanceMetric     = "appearance_metric"
	KeyAssignment           = "assignment"
	KeyMotion               = "motion"
	KeyFrameInterval        = "frame_interval"
	KeyMaxHistoryLen        = "max_history_len"
	KeyCoastHistory         = "coast_history"
	KeyRelabelConfidence    = "relabel_confidence"
)

// Load reads tracker configuration. Values come from (highest priority first)
// environment variables, the config file and mot.DefaultConfig.
//
// Empty path falls back to $BLOBTRACK_CONFIG and then to ./blobtrack.{toml,yaml,json};
// a missing default file is not an error, a missing explicit file is.
// Returned configuration is validated.
func Load(path string) (mot.Config, error) {
	v := viper.New()
	setDefaults(v, mot.DefaultConfig())

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return mot.Config{}, errors.Wrapf(err, "Can't read config %q", path)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper, cfg mot.Config) {
	v.SetDefault(KeyMaxConsecutiveMisses, cfg.MaxConsecutiveMisses)
	v.SetDefault(KeyMatchCostThreshold, cfg.MatchCostThreshold)
	v.SetDefault(KeyHistoryWindow, cfg.HistoryWindow)
	v.SetDefault(KeyPositionWeight, cfg.PositionWeight)
	v.SetDefault(KeySizeWeight, cfg.SizeWeight)
	v.SetDefault(KeyAppearanceWeight, cfg.AppearanceWeight)
	v.SetDefault(KeyIoUWeight, cfg.IoUWeight)
	v.SetDefault(KeyAppearanceMetric, cfg.AppearanceMetric.String())
	v.SetDefault(KeyAssignment, cfg.Assignment.String())
	v.SetDefault(KeyMotion, cfg.Motion.String())
	v.SetDefault(KeyFrameInterval, cfg.FrameInterval)
	v.SetDefault(KeyMaxHistoryLen, cfg.MaxHistoryLen)
	v.SetDefault(KeyCoastHistory, cfg.CoastHistory)
	v.SetDefault(KeyRelabelConfidence, cfg.RelabelConfidence)
}

func fromViper(v *viper.Viper) (mot.Config, error) {
	metric, err := mot.ParseAppearanceMetric(strings.ToLower(v.GetString(KeyAppearanceMetric)))
	if err != nil {
		return mot.Config{}, err
	}
	assignment, err := mot.ParseAssignmentAlgorithm(strings.ToLower(v.GetString(KeyAssignment)))
	if err != nil {
		return mot.Config{}, err
	}
	motion, err := mot.ParseMotionModel(strings.ToLower(v.GetString(KeyMotion)))
	if err != nil {
		return mot.Config{}, err
	}
	cfg := mot.Config{
		MaxConsecutiveMisses: v.GetInt(KeyMaxConsecutiveMisses),
		MatchCostThreshold:   v.GetFloat64(KeyMatchCostThreshold),
		HistoryWindow:        v.GetInt(KeyHistoryWindow),
		PositionWeight:       v.GetFloat64(KeyPositionWeight),
		SizeWeight:           v.GetFloat64(KeySizeWeight),
		AppearanceWeight:     v.GetFloat64(KeyAppearanceWeight),
		IoUWeight:            v.GetFloat64(KeyIoUWeight),
		AppearanceMetric:     metric,
		Assignment:           assignment,
		Motion:               motion,
		FrameInterval:        v.GetFloat64(KeyFrameInterval),
		MaxHistoryLen:        v.GetInt(KeyMaxHistoryLen),
		CoastHistory:         v.GetBool(KeyCoastHistory),
		RelabelConfidence:    v.GetFloat64(KeyRelabelConfidence),
	}
	if err := cfg.Validate(); err != nil {
		return mot.Config{}, err
	}
	return cfg, nil
}
