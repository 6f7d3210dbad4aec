package config

import (
	"errors"
	"testing"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Global.Timeframe == "" || cfg.Global.CandleLimit <= 0 {
		t.Errorf("Expected global settings, got %+v", cfg.Global)
	}
	for _, profile := range []string{"default", "strict", "lenient"} {
		if _, ok := cfg.Profiles[profile]; !ok {
			t.Errorf("Expected profile %q in config.yaml", profile)
		}
	}
}

func TestBuildCriteria(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	criteria, err := cfg.BuildCriteria("strict")
	if err != nil {
		t.Fatalf("BuildCriteria failed: %v", err)
	}
	if !criteria.MarketCapRequired {
		t.Error("Expected the strict profile to require market caps")
	}
	if criteria.TopN != 5 {
		t.Errorf("Expected top_n 5 for strict, got %d", criteria.TopN)
	}
	if err := criteria.Validate(); err != nil {
		t.Errorf("Built criteria must validate, got %v", err)
	}
}

func TestBuildCriteria_UnknownProfile(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := cfg.BuildCriteria("nope"); err == nil {
		t.Error("Expected an error for an unknown profile")
	}
}

func TestBuildCriteria_InvalidProfileRejected(t *testing.T) {
	cfg := &Config{Profiles: map[string]ProfileConfig{
		"broken": {
			TopN: 0, // invalid
			Criteria: CriteriaConfig{
				RSIMin: 20, RSIMax: 80,
			},
		},
	}}
	_, err := cfg.BuildCriteria("broken")
	if !errors.Is(err, types.ErrInvalidCriteria) {
		t.Errorf("Expected ErrInvalidCriteria, got %v", err)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestBuildDetector_FallbackDefaults(t *testing.T) {
	cfg := &Config{Profiles: map[string]ProfileConfig{
		"partial": {Patterns: PatternConfig{VolumeSurgeRatio: floatPtr(2.0)}},
	}}

	d := cfg.BuildDetector("partial")
	if d.VolumeSurgeRatio != 2.0 {
		t.Errorf("Expected configured surge ratio 2.0, got %f", d.VolumeSurgeRatio)
	}
	if d.MaxBonus != 15 {
		t.Errorf("Expected default max bonus for omitted fields, got %f", d.MaxBonus)
	}

	d = cfg.BuildDetector("missing")
	if d.NearBottomDecline != 30 {
		t.Errorf("Expected stock detector for unknown profile, got %+v", d)
	}
}

func TestBuildDetector_ExplicitZeroHonored(t *testing.T) {
	cfg := &Config{Profiles: map[string]ProfileConfig{
		"nobonus": {Patterns: PatternConfig{MaxBonus: floatPtr(0)}},
	}}

	d := cfg.BuildDetector("nobonus")
	if d.MaxBonus != 0 {
		t.Errorf("Expected max_bonus 0 to disable the bonus, got %f", d.MaxBonus)
	}
}
