package fit

import (
	"strings"

	"github.com/eugenenazirov/container-fit/internal/catalog"
)

// tolerance absorbs floating-point summation noise when demand meets capacity.
const tolerance = 1e-9

type calculator struct{}

// New creates a Calculator backed by Compute.
func New() Calculator {
	return &calculator{}
}

func (c *calculator) Compute(lines []OrderLine, selectedCode string, containers []catalog.Container) Outcome {
	return Compute(lines, selectedCode, containers)
}

// Compute aggregates the order lines and classifies the selected container
// against the catalog. An empty selectedCode yields an Error outcome without
// any numeric work.
func Compute(lines []OrderLine, selectedCode string, containers []catalog.Container) Outcome {
	code := strings.TrimSpace(selectedCode)
	if code == "" {
		return errorOutcome(ErrMissingSelection, "")
	}

	selected, ok := findContainer(containers, code)
	if !ok {
		return errorOutcome(ErrUnknownContainer, code)
	}

	return Classify(Aggregate(lines), &selected, containers)
}

// BuildOrderLines returns one line per product in catalog order. Products
// missing from quantities get 0; references not in products are ignored.
func BuildOrderLines(products []catalog.Product, quantities map[string]int) []OrderLine {
	lines := make([]OrderLine, len(products))
	for i, p := range products {
		lines[i] = OrderLine{Product: p, Quantity: quantities[p.Reference]}
	}
	return lines
}

// Aggregate sums quantity × unit weight and quantity × unit volume over all
// lines. Negative quantities count as 0.
func Aggregate(lines []OrderLine) Demand {
	var d Demand
	for _, line := range lines {
		qty := float64(max(line.Quantity, 0))
		d.TotalWeight += qty * line.Product.UnitWeight
		d.TotalVolume += qty * line.Product.UnitVolume
	}
	return d
}

// Evaluate reports how far the demand exceeds the container on each axis.
// A demand equal to capacity, within tolerance, is not a shortfall.
func Evaluate(d Demand, c catalog.Container) Evaluation {
	var e Evaluation
	if excess := d.TotalVolume - c.VolumeCapacity; excess > tolerance {
		e.VolumeShortfall = excess
	}
	if excess := d.TotalWeight - c.WeightCapacity; excess > tolerance {
		e.WeightShortfall = excess
	}
	e.TooSmall = e.VolumeShortfall > 0 || e.WeightShortfall > 0
	return e
}

// Remaining returns the unused capacity of c, floored at zero.
func Remaining(d Demand, c catalog.Container) Headroom {
	return Headroom{
		Volume: max(c.VolumeCapacity-d.TotalVolume, 0),
		Weight: max(c.WeightCapacity-d.TotalWeight, 0),
	}
}

// IsCandidate reports whether c holds the demand on both axes, within tolerance.
func IsCandidate(d Demand, c catalog.Container) bool {
	return d.TotalVolume-c.VolumeCapacity <= tolerance && d.TotalWeight-c.WeightCapacity <= tolerance
}

// BestFit returns the candidate with the smallest volume capacity, breaking
// ties on weight capacity and then on catalog order.
//
// This is a greedy volume-first heuristic rather than a true minimal-waste
// search: a slightly larger container with far less weight capacity is never
// preferred over a smaller-volume one.
func BestFit(d Demand, containers []catalog.Container) (catalog.Container, bool) {
	var (
		best  catalog.Container
		found bool
	)
	for _, c := range containers {
		if !IsCandidate(d, c) {
			continue
		}
		if !found || smaller(c, best) {
			best = c
			found = true
		}
	}
	return best, found
}

func smaller(a, b catalog.Container) bool {
	if a.VolumeCapacity != b.VolumeCapacity {
		return a.VolumeCapacity < b.VolumeCapacity
	}
	return a.WeightCapacity < b.WeightCapacity
}

// Classify turns a demand and the selected container into an Outcome.
// Precedence: Error (nil selection), TooSmall, Oversized, Adequate.
func Classify(d Demand, selected *catalog.Container, containers []catalog.Container) Outcome {
	if selected == nil {
		return errorOutcome(ErrMissingSelection, "")
	}

	out := Outcome{
		SelectedCode: selected.Code,
		Demand:       d,
	}

	eval := Evaluate(d, *selected)
	best, found := BestFit(d, containers)

	switch {
	case eval.TooSmall:
		out.Category = CategoryTooSmall
		out.VolumeShortfall = eval.VolumeShortfall
		out.WeightShortfall = eval.WeightShortfall
		if found {
			out.Recommended = &best
		} else {
			out.NoSufficientContainer = true
		}
	case found && best.Code != selected.Code:
		out.Category = CategoryOversized
		out.Recommended = &best
		out.Headroom = ptr(Remaining(d, *selected))
	default:
		out.Category = CategoryAdequate
		out.Headroom = ptr(Remaining(d, *selected))
	}

	out.Message = describe(out)
	return out
}

func errorOutcome(err error, code string) Outcome {
	out := Outcome{
		Category:     CategoryError,
		SelectedCode: code,
		Err:          err,
	}
	out.Message = describe(out)
	return out
}

func findContainer(containers []catalog.Container, code string) (catalog.Container, bool) {
	for _, c := range containers {
		if strings.TrimSpace(c.Code) == code {
			return c, true
		}
	}
	return catalog.Container{}, false
}

func ptr[T any](v T) *T {
	return &v
}
