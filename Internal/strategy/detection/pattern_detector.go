package detection

import (
	"fmt"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

// SignalType names a compound pattern signal.
type SignalType string

const (
	SignalVolumeSurge SignalType = "volume_surge"
	SignalNearBottom  SignalType = "near_bottom"
	SignalUpsideRoom  SignalType = "upside_room"
)

// Fixed per-signal score contributions. The sum is capped by Detector.MaxBonus.
var signalWeights = map[SignalType]float64{
	SignalVolumeSurge: 8.0,
	SignalNearBottom:  6.0,
	SignalUpsideRoom:  4.0,
}

// PatternSignal is one detected signal with its score contribution.
type PatternSignal struct {
	Signal    SignalType
	Strength  float64
	Reasoning string
}

// Detector inspects derived metrics for compound accumulation-style signals.
type Detector struct {
	VolumeSurgeRatio  float64 // turnover multiple of the trailing average
	NearBottomDecline float64 // percent decline from high
	NearBottomRSIMax  float64 // oversold-adjacent ceiling
	UpsideRoomDecline float64 // percent decline implying recovery headroom
	MaxBonus          float64
}

func NewDetector() *Detector {
	return &Detector{
		VolumeSurgeRatio:  1.5,
		NearBottomDecline: 30.0,
		NearBottomRSIMax:  35.0,
		UpsideRoomDecline: 50.0,
		MaxBonus:          15.0,
	}
}

// Detect evaluates all signals against one asset's metrics and returns them in
// a fixed order together with the capped additive bonus. Volume surge is
// skipped, not failed, when the trailing volume ratio is unknown.
func (d *Detector) Detect(m types.AssetMetrics) ([]PatternSignal, float64) {
	signals := []PatternSignal{}

	if m.VolumeRatio != nil && *m.VolumeRatio >= d.VolumeSurgeRatio {
		signals = append(signals, PatternSignal{
			Signal:    SignalVolumeSurge,
			Strength:  signalWeights[SignalVolumeSurge],
			Reasoning: fmt.Sprintf("turnover %.1fx trailing average", *m.VolumeRatio),
		})
	}

	if m.DeclineFromHigh >= d.NearBottomDecline && m.RSI <= d.NearBottomRSIMax {
		signals = append(signals, PatternSignal{
			Signal:    SignalNearBottom,
			Strength:  signalWeights[SignalNearBottom],
			Reasoning: fmt.Sprintf("%.0f%% off high with RSI %.1f", m.DeclineFromHigh, m.RSI),
		})
	}

	if m.DeclineFromHigh >= d.UpsideRoomDecline {
		signals = append(signals, PatternSignal{
			Signal:    SignalUpsideRoom,
			Strength:  signalWeights[SignalUpsideRoom],
			Reasoning: fmt.Sprintf("%.0f%% below reference high", m.DeclineFromHigh),
		})
	}

	bonus := 0.0
	for _, s := range signals {
		bonus += s.Strength
	}
	if bonus > d.MaxBonus {
		bonus = d.MaxBonus
	}
	return signals, bonus
}

// SignalNames flattens detected signals to their names, preserving order.
func SignalNames(signals []PatternSignal) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = string(s.Signal)
	}
	return names
}
