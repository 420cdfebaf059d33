package services

import (
	"sort"

	"image-gallery/pkg/models"
)

// Orderer sorts categories by a fixed priority list, then by id
type Orderer struct {
	rank map[string]int
}

// NewOrderer creates an orderer for the given priority list.
// Names listed more than once keep their first position.
func NewOrderer(priority []string) *Orderer {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, exists := rank[name]; !exists {
			rank[name] = i
		}
	}
	return &Orderer{rank: rank}
}

// Rank returns the position of name in the priority list and whether it is listed
func (o *Orderer) Rank(name string) (int, bool) {
	r, ok := o.rank[name]
	return r, ok
}

// Less compares two categories by (priority rank, id). Unlisted categories
// sort after all listed ones. A category is matched on its own directory
// name, so the same list applies at every depth.
func (o *Orderer) Less(a, b models.Category) bool {
	ra, okA := o.Rank(a.Name())
	rb, okB := o.Rank(b.Name())
	switch {
	case okA && okB && ra != rb:
		return ra < rb
	case okA != okB:
		return okA
	}
	return a.ID < b.ID
}

// Sort orders categories in place, recursing into subcategories
func (o *Orderer) Sort(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return o.Less(categories[i], categories[j])
	})
	for i := range categories {
		o.Sort(categories[i].Subcategories)
	}
}
