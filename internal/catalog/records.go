package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Column names used by the capacity table exports. Header cells are trimmed
// before lookup, so the exported "NAME " and "ID " headers match too.
const (
	colReference  = "Référence"
	colName       = "Nom"
	colUnitWeight = "Poids_unité"
	colUnitVolume = "Volume_unité"

	colCode           = "NAME"
	colLegacyID       = "ID"
	colWeightMax      = "Poids_max"
	colVolumeMoreFour = "Capacite_plus_de_quatre"
	colVolumeFourLess = "Capacite_quatre_ou_moins"
	colCost           = "Cout_du_conteneur"
	colAllowed        = "Allowed"
)

// record is one tabular catalog row keyed by trimmed column name. Missing and
// null cells are absent from the map.
type record map[string]string

func (r record) text(col string) string {
	return strings.TrimSpace(r[col])
}

func (r record) number(col string) (float64, error) {
	raw := r.text(col)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: invalid number %q", col, raw)
	}
	return v, nil
}

// productsFromRecords converts rows into products. Rows without a reference
// are dropped.
func productsFromRecords(rows []record) ([]Product, error) {
	products := make([]Product, 0, len(rows))
	for i, row := range rows {
		ref := row.text(colReference)
		if ref == "" {
			continue
		}

		weight, err := row.number(colUnitWeight)
		if err != nil {
			return nil, fmt.Errorf("%w: product row %d: %v", ErrMalformed, i+1, err)
		}
		volume, err := row.number(colUnitVolume)
		if err != nil {
			return nil, fmt.Errorf("%w: product row %d: %v", ErrMalformed, i+1, err)
		}

		products = append(products, Product{
			Reference:  ref,
			Name:       row.text(colName),
			UnitWeight: weight,
			UnitVolume: volume,
		})
	}
	return products, nil
}

func containersFromRecords(rows []record) ([]Container, error) {
	containers := make([]Container, 0, len(rows))
	for i, row := range rows {
		c := Container{
			Code:    row.text(colCode),
			Allowed: splitAllowed(row.text(colAllowed)),
		}

		numbers := []struct {
			col string
			dst *float64
		}{
			{colWeightMax, &c.WeightCapacity},
			{colVolumeMoreFour, &c.VolumeCapacity},
			{colVolumeFourLess, &c.VolumeCapacityFewProducts},
			{colCost, &c.Cost},
		}
		for _, n := range numbers {
			v, err := row.number(n.col)
			if err != nil {
				return nil, fmt.Errorf("%w: container row %d: %v", ErrMalformed, i+1, err)
			}
			*n.dst = v
		}

		id, err := row.number(colLegacyID)
		if err != nil {
			return nil, fmt.Errorf("%w: container row %d: %v", ErrMalformed, i+1, err)
		}
		c.LegacyID = int(id)

		containers = append(containers, c)
	}
	return containers, nil
}

func splitAllowed(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
