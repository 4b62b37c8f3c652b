package fit

import "github.com/eugenenazirov/container-fit/internal/catalog"

// OrderLine pairs a catalog product with the quantity ordered.
type OrderLine struct {
	Product  catalog.Product
	Quantity int
}

// Demand is the total weight (kg) and volume (m³) implied by a set of order
// lines. Values are kept at full precision; rounding is for display only.
type Demand struct {
	TotalWeight float64 `json:"totalWeight"`
	TotalVolume float64 `json:"totalVolume"`
}

// Evaluation is the result of checking a demand against one container.
type Evaluation struct {
	TooSmall        bool
	VolumeShortfall float64
	WeightShortfall float64
}

// Headroom is the unused capacity of a container that holds the demand.
type Headroom struct {
	Volume float64 `json:"volume"`
	Weight float64 `json:"weight"`
}

// Category classifies a fit calculation.
type Category string

const (
	CategoryAdequate  Category = "adequate"
	CategoryTooSmall  Category = "too_small"
	CategoryOversized Category = "oversized"
	CategoryError     Category = "error"
)

// Outcome is the renderable result of one calculation.
//
// Shortfalls are only set for TooSmall and only on the axes that are short.
// Headroom is set for Adequate and Oversized. When TooSmall has no
// recommendation, NoSufficientContainer is true and Demand holds the unmet
// totals.
type Outcome struct {
	Category              Category           `json:"category"`
	SelectedCode          string             `json:"selectedCode,omitempty"`
	Demand                Demand             `json:"demand"`
	VolumeShortfall       float64            `json:"volumeShortfall,omitempty"`
	WeightShortfall       float64            `json:"weightShortfall,omitempty"`
	Recommended           *catalog.Container `json:"recommended,omitempty"`
	NoSufficientContainer bool               `json:"noSufficientContainer,omitempty"`
	Headroom              *Headroom          `json:"headroom,omitempty"`
	Message               string             `json:"message"`
	Err                   error              `json:"-"`
}

// Calculator describes the behaviour required from a container fit calculator.
type Calculator interface {
	Compute(lines []OrderLine, selectedCode string, containers []catalog.Container) Outcome
}
