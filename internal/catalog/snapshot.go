package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Snapshot is an immutable view of the product and container catalogs.
// Accessors hand out copies so callers cannot mutate the loaded data.
type Snapshot struct {
	products   []Product
	containers []Container

	productIndex   map[string]int
	containerIndex map[string]int
}

// NewSnapshot validates the records and freezes them into a Snapshot.
// References and codes are trimmed and must be unique.
func NewSnapshot(products []Product, containers []Container) (*Snapshot, error) {
	s := &Snapshot{
		products:       make([]Product, 0, len(products)),
		containers:     make([]Container, 0, len(containers)),
		productIndex:   make(map[string]int, len(products)),
		containerIndex: make(map[string]int, len(containers)),
	}

	for i, p := range products {
		p.Reference = strings.TrimSpace(p.Reference)
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: product %d: %v", ErrMalformed, i, err)
		}
		if _, dup := s.productIndex[p.Reference]; dup {
			return nil, fmt.Errorf("%w: duplicate product reference %q", ErrMalformed, p.Reference)
		}
		s.productIndex[p.Reference] = len(s.products)
		s.products = append(s.products, p)
	}

	for i, c := range containers {
		c.Code = strings.TrimSpace(c.Code)
		c.Allowed = slices.Clone(c.Allowed)
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("%w: container %d: %v", ErrMalformed, i, err)
		}
		if _, dup := s.containerIndex[c.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate container code %q", ErrMalformed, c.Code)
		}
		s.containerIndex[c.Code] = len(s.containers)
		s.containers = append(s.containers, c)
	}

	return s, nil
}

// Products returns a copy of the product catalog in load order.
func (s *Snapshot) Products() []Product {
	return slices.Clone(s.products)
}

// Containers returns a copy of the container catalog in load order.
func (s *Snapshot) Containers() []Container {
	out := make([]Container, len(s.containers))
	for i, c := range s.containers {
		c.Allowed = slices.Clone(c.Allowed)
		out[i] = c
	}
	return out
}

// Product looks a product up by reference.
func (s *Snapshot) Product(reference string) (Product, bool) {
	idx, ok := s.productIndex[strings.TrimSpace(reference)]
	if !ok {
		return Product{}, false
	}
	return s.products[idx], true
}

// Container looks a container up by code.
func (s *Snapshot) Container(code string) (Container, bool) {
	idx, ok := s.containerIndex[strings.TrimSpace(code)]
	if !ok {
		return Container{}, false
	}
	c := s.containers[idx]
	c.Allowed = slices.Clone(c.Allowed)
	return c, true
}
