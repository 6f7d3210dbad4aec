package detection

import (
	"reflect"
	"testing"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

func floatPtr(v float64) *float64 { return &v }

func TestDetect_AllSignalsCapped(t *testing.T) {
	d := NewDetector()
	m := types.AssetMetrics{
		Symbol:          "TEST/USD",
		RSI:             30,
		DeclineFromHigh: 60,
		VolumeRatio:     floatPtr(2.0),
	}

	signals, bonus := d.Detect(m)
	got := SignalNames(signals)
	want := []string{"volume_surge", "near_bottom", "upside_room"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected signals %v, got %v", want, got)
	}
	// Raw contributions 8+6+4 = 18, capped at 15.
	if bonus != 15 {
		t.Errorf("Expected capped bonus 15, got %f", bonus)
	}
}

func TestDetect_UnknownVolumeRatioSkipsSurge(t *testing.T) {
	d := NewDetector()
	m := types.AssetMetrics{
		Symbol:          "TEST/USD",
		RSI:             30,
		DeclineFromHigh: 60,
		VolumeRatio:     nil,
	}

	signals, bonus := d.Detect(m)
	for _, s := range signals {
		if s.Signal == SignalVolumeSurge {
			t.Error("Volume surge must not fire without a volume ratio")
		}
	}
	if bonus != 10 {
		t.Errorf("Expected bonus 10 (near_bottom + upside_room), got %f", bonus)
	}
}

func TestDetect_NearBottomNeedsBothConditions(t *testing.T) {
	d := NewDetector()

	// Deep decline but RSI not oversold-adjacent.
	signals, _ := d.Detect(types.AssetMetrics{RSI: 50, DeclineFromHigh: 40})
	for _, s := range signals {
		if s.Signal == SignalNearBottom {
			t.Error("near_bottom must not fire with RSI above the ceiling")
		}
	}

	// Oversold RSI but shallow decline.
	signals, _ = d.Detect(types.AssetMetrics{RSI: 25, DeclineFromHigh: 10})
	for _, s := range signals {
		if s.Signal == SignalNearBottom {
			t.Error("near_bottom must not fire with a shallow decline")
		}
	}
}

func TestDetect_NoSignals(t *testing.T) {
	d := NewDetector()
	signals, bonus := d.Detect(types.AssetMetrics{
		RSI:             55,
		DeclineFromHigh: 5,
		VolumeRatio:     floatPtr(1.0),
	})
	if len(signals) != 0 {
		t.Errorf("Expected no signals, got %v", SignalNames(signals))
	}
	if bonus != 0 {
		t.Errorf("Expected zero bonus, got %f", bonus)
	}
}

func TestDetect_ThresholdsAreInclusive(t *testing.T) {
	d := NewDetector()
	m := types.AssetMetrics{
		RSI:             d.NearBottomRSIMax,
		DeclineFromHigh: d.UpsideRoomDecline,
		VolumeRatio:     floatPtr(d.VolumeSurgeRatio),
	}
	signals, _ := d.Detect(m)
	if len(signals) != 3 {
		t.Errorf("Expected all signals at exact thresholds, got %v", SignalNames(signals))
	}
}
