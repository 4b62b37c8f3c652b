package fit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	weightPlaces = 3
	volumePlaces = 6
)

// RoundWeight rounds a weight to the 3 decimals used for display.
func RoundWeight(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(weightPlaces).Float64()
	return f
}

// RoundVolume rounds a volume to the 6 decimals used for display.
func RoundVolume(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(volumePlaces).Float64()
	return f
}

// FormatWeight renders a weight in kg with 3 fixed decimals.
func FormatWeight(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(weightPlaces) + " kg"
}

// FormatVolume renders a volume in m³ with 6 fixed decimals.
func FormatVolume(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(volumePlaces) + " m³"
}

func describe(o Outcome) string {
	var b strings.Builder

	switch o.Category {
	case CategoryError:
		if errors.Is(o.Err, ErrUnknownContainer) {
			fmt.Fprintf(&b, "Container %s is not in the catalog.", o.SelectedCode)
		} else {
			b.WriteString("Select a container before running the calculation.")
		}

	case CategoryTooSmall:
		fmt.Fprintf(&b, "Container %s is too small for this order.", o.SelectedCode)
		if o.VolumeShortfall > 0 {
			fmt.Fprintf(&b, " Missing %s of volume.", FormatVolume(o.VolumeShortfall))
		}
		if o.WeightShortfall > 0 {
			fmt.Fprintf(&b, " Missing %s of weight capacity.", FormatWeight(o.WeightShortfall))
		}
		if o.Recommended != nil {
			fmt.Fprintf(&b, " Consider container %s (volume %s, max weight %s).",
				o.Recommended.Code, FormatVolume(o.Recommended.VolumeCapacity), FormatWeight(o.Recommended.WeightCapacity))
		} else {
			fmt.Fprintf(&b, " No available container is large enough (required volume %s, required weight %s).",
				FormatVolume(o.Demand.TotalVolume), FormatWeight(o.Demand.TotalWeight))
		}

	case CategoryOversized:
		fmt.Fprintf(&b, "Container %s can hold the order, but container %s is a better fit (less wasted space).",
			o.SelectedCode, o.Recommended.Code)
		fmt.Fprintf(&b, " Remaining space in the current container: %s and %s.",
			FormatVolume(o.Headroom.Volume), FormatWeight(o.Headroom.Weight))

	case CategoryAdequate:
		fmt.Fprintf(&b, "Container %s fits the order.", o.SelectedCode)
		fmt.Fprintf(&b, " Remaining space: %s and %s.",
			FormatVolume(o.Headroom.Volume), FormatWeight(o.Headroom.Weight))
	}

	return b.String()
}

// RoundOutcome returns o with its demand, shortfalls and headroom rounded to
// display precision. The classification itself is left untouched.
func RoundOutcome(o Outcome) Outcome {
	o.Demand = Demand{
		TotalWeight: RoundWeight(o.Demand.TotalWeight),
		TotalVolume: RoundVolume(o.Demand.TotalVolume),
	}
	o.VolumeShortfall = RoundVolume(o.VolumeShortfall)
	o.WeightShortfall = RoundWeight(o.WeightShortfall)
	if o.Headroom != nil {
		o.Headroom = &Headroom{
			Volume: RoundVolume(o.Headroom.Volume),
			Weight: RoundWeight(o.Headroom.Weight),
		}
	}
	return o
}
