package catalog

// Product is a catalog item. UnitWeight is in kg and UnitVolume in m³.
type Product struct {
	Reference  string  `json:"reference" validate:"required"`
	Name       string  `json:"name,omitempty"`
	UnitWeight float64 `json:"unitWeight" validate:"gte=0"`
	UnitVolume float64 `json:"unitVolume" validate:"gte=0"`
}

// Container describes a shipping container as exported from the capacity
// tables.
//
// Fit decisions only use WeightCapacity and VolumeCapacity (the "more than
// four products" loading rule). VolumeCapacityFewProducts and Allowed are
// kept as loaded but nothing consults them yet: the data carries no rule for
// when the four-or-fewer figure should apply.
type Container struct {
	Code                      string   `json:"code" validate:"required"`
	LegacyID                  int      `json:"legacyId"`
	WeightCapacity            float64  `json:"weightCapacity" validate:"gte=0"`
	VolumeCapacity            float64  `json:"volumeCapacity" validate:"gte=0"`
	VolumeCapacityFewProducts float64  `json:"volumeCapacityFewProducts" validate:"gte=0"`
	Cost                      float64  `json:"cost"`
	Allowed                   []string `json:"allowed,omitempty"`
}
