package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/bajutae/Findupbitjewel/Internal/strategy/detection"
	"github.com/bajutae/Findupbitjewel/Internal/types"
)

type Config struct {
	Global struct {
		Timeframe     string `yaml:"timeframe"`
		CandleLimit   int    `yaml:"candle_limit"`
		QuoteCurrency string `yaml:"quote_currency"`
	} `yaml:"global"`

	// Majors and stablecoins sit outside the hidden-gem universe.
	ExcludeSymbols []string `yaml:"exclude_symbols"`

	Profiles map[string]ProfileConfig `yaml:"profiles"`
}

type ProfileConfig struct {
	TopN     int            `yaml:"top_n"`
	MinScore float64        `yaml:"min_score"`
	Criteria CriteriaConfig `yaml:"criteria"`
	Patterns PatternConfig  `yaml:"patterns"`
}

type CriteriaConfig struct {
	MinDailyVolume        float64 `yaml:"min_daily_volume"`
	MinDeclineFromHigh    float64 `yaml:"min_decline_from_high"`
	VolatilityMin         float64 `yaml:"volatility_min"`
	VolatilityMax         float64 `yaml:"volatility_max"`
	CCIMin                float64 `yaml:"cci_min"`
	CCIMax                float64 `yaml:"cci_max"`
	RSIMin                float64 `yaml:"rsi_min"`
	RSIMax                float64 `yaml:"rsi_max"`
	MarketCapMin          float64 `yaml:"market_cap_min"`
	MarketCapMax          float64 `yaml:"market_cap_max"`
	MarketCapRequired     bool    `yaml:"market_cap_required"`
	VolumeGrowthMin       float64 `yaml:"volume_growth_min"`
	MaxConsecutiveDecline int     `yaml:"max_consecutive_decline"`
	MaxRecentSpike        float64 `yaml:"max_recent_spike"`
	RequireAboveMA        bool    `yaml:"require_above_ma"`
	HighLookback          int     `yaml:"high_lookback"`
}

// PatternConfig overrides detector thresholds. Pointer fields distinguish
// "absent, keep the default" from an explicit zero (e.g. max_bonus: 0 to
// disable the bonus entirely).
type PatternConfig struct {
	VolumeSurgeRatio  *float64 `yaml:"volume_surge_ratio"`
	NearBottomDecline *float64 `yaml:"near_bottom_decline"`
	NearBottomRSIMax  *float64 `yaml:"near_bottom_rsi_max"`
	UpsideRoomDecline *float64 `yaml:"upside_room_decline"`
	MaxBonus          *float64 `yaml:"max_bonus"`
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BuildCriteria is the single construction path for screener criteria; the CLI
// and the API both go through it so no hidden defaults diverge between them.
func (c *Config) BuildCriteria(profileName string) (types.ScreenerCriteria, error) {
	profile, exists := c.Profiles[profileName]
	if !exists {
		return types.ScreenerCriteria{}, fmt.Errorf("unknown profile %q", profileName)
	}

	pc := profile.Criteria
	criteria := types.ScreenerCriteria{
		MinDailyVolume:        pc.MinDailyVolume,
		MinDeclineFromHigh:    pc.MinDeclineFromHigh,
		VolatilityMin:         pc.VolatilityMin,
		VolatilityMax:         pc.VolatilityMax,
		CCIMin:                pc.CCIMin,
		CCIMax:                pc.CCIMax,
		RSIMin:                pc.RSIMin,
		RSIMax:                pc.RSIMax,
		MarketCapMin:          pc.MarketCapMin,
		MarketCapMax:          pc.MarketCapMax,
		MarketCapRequired:     pc.MarketCapRequired,
		VolumeGrowthMin:       pc.VolumeGrowthMin,
		MaxConsecutiveDecline: pc.MaxConsecutiveDecline,
		MaxRecentSpike:        pc.MaxRecentSpike,
		RequireAboveMA:        pc.RequireAboveMA,
		HighLookback:          pc.HighLookback,
		TopN:                  profile.TopN,
		MinScore:              profile.MinScore,
	}
	if err := criteria.Validate(); err != nil {
		return types.ScreenerCriteria{}, err
	}
	return criteria, nil
}

// BuildDetector returns a pattern detector tuned by the profile, falling back
// to the stock thresholds for fields the profile omits. Explicit zeroes are
// honored.
func (c *Config) BuildDetector(profileName string) *detection.Detector {
	d := detection.NewDetector()
	profile, exists := c.Profiles[profileName]
	if !exists {
		return d
	}

	p := profile.Patterns
	if p.VolumeSurgeRatio != nil {
		d.VolumeSurgeRatio = *p.VolumeSurgeRatio
	}
	if p.NearBottomDecline != nil {
		d.NearBottomDecline = *p.NearBottomDecline
	}
	if p.NearBottomRSIMax != nil {
		d.NearBottomRSIMax = *p.NearBottomRSIMax
	}
	if p.UpsideRoomDecline != nil {
		d.UpsideRoomDecline = *p.UpsideRoomDecline
	}
	if p.MaxBonus != nil {
		d.MaxBonus = *p.MaxBonus
	}
	return d
}
