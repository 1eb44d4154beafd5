package mesh

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrPropertyNotFound = errors.New("property vector not found")
	ErrPropertyMismatch = errors.New("property vector mismatch")
	ErrPropertyExists   = errors.New("property vector already exists")
	ErrPropertySize     = errors.New("property vector size does not match the mesh")
)

// MeshItemType is the kind of entity a property vector is attached to
type MeshItemType uint8

const (
	ItemNode MeshItemType = iota
	ItemEdge
	ItemFace
	ItemCell
	ItemIntegrationPoint
)

func (t MeshItemType) String() string {
	switch t {
	case ItemNode:
		return "node"
	case ItemEdge:
		return "edge"
	case ItemFace:
		return "face"
	case ItemCell:
		return "cell"
	case ItemIntegrationPoint:
		return "integration_point"
	}
	return fmt.Sprintf("MeshItemType(%d)", uint8(t))
}

// PropertyVector is a flat array with a fixed number of components per entity
type PropertyVector[T any] struct {
	name       string
	item       MeshItemType
	components int
	data       []T
}

func (p *PropertyVector[T]) Name() string { return p.name }
func (p *PropertyVector[T]) ItemType() MeshItemType { return p.item }
func (p *PropertyVector[T]) NumberOfComponents() int { return p.components }
func (p *PropertyVector[T]) NumberOfTuples() int { return len(p.data) / p.components }
func (p *PropertyVector[T]) Len() int { return len(p.data) }
func (p *PropertyVector[T]) Data() []T { return p.data }
func (p *PropertyVector[T]) At(entity, comp int) T { return p.data[entity*p.components+comp] }
func (p *PropertyVector[T]) Set(entity, comp int, v T) { p.data[entity*p.components+comp] = v }

// Tuple returns the components of one entity as a view into the data
func (p *PropertyVector[T]) Tuple(entity int) []T {
	return p.data[entity*p.components : (entity+1)*p.components]
}

// Resize changes the number of tuples, keeping existing values
func (p *PropertyVector[T]) Resize(tuples int) {
	n := tuples * p.components
	if n <= cap(p.data) {
		p.data = p.data[:n]
		return
	}
	grown := make([]T, n)
	copy(grown, p.data)
	p.data = grown
}

func (p *PropertyVector[T]) typeName() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func (p *PropertyVector[T]) cloneVector() propertyVector {
	return &PropertyVector[T]{name: p.name, item: p.item, components: p.components,
		data: append([]T(nil), p.data...)}
}

func (p *PropertyVector[T]) selectTuples(ids []int) propertyVector {
	out := &PropertyVector[T]{name: p.name, item: p.item, components: p.components,
		data: make([]T, 0, len(ids)*p.components)}
	for _, id := range ids {
		out.data = append(out.data, p.Tuple(id)...)
	}
	return out
}

// propertyVector is the type erased view the Properties container stores
type propertyVector interface {
	Name() string
	ItemType() MeshItemType
	NumberOfComponents() int
	NumberOfTuples() int
	typeName() string
	cloneVector() propertyVector
	selectTuples(ids []int) propertyVector
}

// Properties is a named collection of property vectors of arbitrary value types
type Properties struct {
	vectors map[string]propertyVector
}

func NewProperties() *Properties {
	return &Properties{vectors: make(map[string]propertyVector)}
}

// CreateProperty adds an empty vector. It fails with ErrPropertyExists if the name
// is taken.
func CreateProperty[T any](p *Properties, name string, item MeshItemType, components int) (*PropertyVector[T], error) {
	if components < 1 {
		return nil, fmt.Errorf("property %q: %w: %d components", name, ErrPropertyMismatch, components)
	}
	if _, ok := p.vectors[name]; ok {
		return nil, fmt.Errorf("property %q: %w", name, ErrPropertyExists)
	}
	pv := &PropertyVector[T]{name: name, item: item, components: components}
	p.vectors[name] = pv
	return pv, nil
}

// AddProperty adds a vector holding a copy of values. len(values) must be a
// multiple of components.
func AddProperty[T any](p *Properties, name string, item MeshItemType, components int, values []T) (*PropertyVector[T], error) {
	pv, err := CreateProperty[T](p, name, item, components)
	if err != nil {
		return nil, err
	}
	if len(values)%components != 0 {
		delete(p.vectors, name)
		return nil, fmt.Errorf("property %q: %w: %d values for %d components",
			name, ErrPropertySize, len(values), components)
	}
	pv.data = append([]T(nil), values...)
	return pv, nil
}

// GetProperty looks a vector up by name and checks value type, item type and
// component count. Absence is ErrPropertyNotFound, any other disagreement is
// ErrPropertyMismatch.
func GetProperty[T any](p *Properties, name string, item MeshItemType, components int) (*PropertyVector[T], error) {
	v, ok := p.vectors[name]
	if !ok {
		return nil, fmt.Errorf("property %q: %w", name, ErrPropertyNotFound)
	}
	pv, ok := v.(*PropertyVector[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("property %q: %w: stored as %s, requested %T",
			name, ErrPropertyMismatch, v.typeName(), zero)
	}
	if pv.item != item {
		return nil, fmt.Errorf("property %q: %w: attached to %s, requested %s",
			name, ErrPropertyMismatch, pv.item, item)
	}
	if pv.components != components {
		return nil, fmt.Errorf("property %q: %w: %d components, requested %d",
			name, ErrPropertyMismatch, pv.components, components)
	}
	return pv, nil
}

// GetPropertyByName looks a vector up by name and value type only
func GetPropertyByName[T any](p *Properties, name string) (*PropertyVector[T], error) {
	v, ok := p.vectors[name]
	if !ok {
		return nil, fmt.Errorf("property %q: %w", name, ErrPropertyNotFound)
	}
	pv, ok := v.(*PropertyVector[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("property %q: %w: stored as %s, requested %T",
			name, ErrPropertyMismatch, v.typeName(), zero)
	}
	return pv, nil
}

// ExistsProperty reports whether GetProperty would succeed
func ExistsProperty[T any](p *Properties, name string, item MeshItemType, components int) bool {
	_, err := GetProperty[T](p, name, item, components)
	return err == nil
}

// ExistsPropertyByName reports whether a vector of value type T is stored under name
func ExistsPropertyByName[T any](p *Properties, name string) bool {
	_, err := GetPropertyByName[T](p, name)
	return err == nil
}

func (p *Properties) Has(name string) bool {
	_, ok := p.vectors[name]
	return ok
}

func (p *Properties) Remove(name string) { delete(p.vectors, name) }

func (p *Properties) Len() int { return len(p.vectors) }

// Names returns the stored names in sorted order
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.vectors))
	for n := range p.vectors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe returns item type and component count of a stored vector
func (p *Properties) Describe(name string) (MeshItemType, int, bool) {
	v, ok := p.vectors[name]
	if !ok {
		return 0, 0, false
	}
	return v.ItemType(), v.NumberOfComponents(), true
}

// Clone deep-copies every vector
func (p *Properties) Clone() *Properties {
	return p.ExcludeCopyProperties()
}

// ExcludeCopyProperties deep-copies every vector whose name is not listed
func (p *Properties) ExcludeCopyProperties(names ...string) *Properties {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := NewProperties()
	for n, v := range p.vectors {
		if !skip[n] {
			out.vectors[n] = v.cloneVector()
		}
	}
	return out
}

// ExcludeCopyItemTypes deep-copies every vector not attached to one of the item types
func (p *Properties) ExcludeCopyItemTypes(items ...MeshItemType) *Properties {
	out := NewProperties()
	for n, v := range p.vectors {
		keep := true
		for _, it := range items {
			if v.ItemType() == it {
				keep = false
			}
		}
		if keep {
			out.vectors[n] = v.cloneVector()
		}
	}
	return out
}

// SelectTuples returns a new container in which every vector attached to item is
// reduced to the tuples of the given entity IDs, in that order. Vectors attached
// to other item types are dropped.
func (p *Properties) SelectTuples(item MeshItemType, ids []int) *Properties {
	out := NewProperties()
	p.selectInto(out, item, ids)
	return out
}

// SelectEntities reduces node vectors to nodeIDs and cell vectors to cellIDs, in
// the given orders. Vectors of other item types are dropped.
func (p *Properties) SelectEntities(nodeIDs, cellIDs []int) *Properties {
	out := NewProperties()
	p.selectInto(out, ItemNode, nodeIDs)
	p.selectInto(out, ItemCell, cellIDs)
	return out
}

func (p *Properties) selectInto(out *Properties, item MeshItemType, ids []int) {
	for n, v := range p.vectors {
		if v.ItemType() == item {
			out.vectors[n] = v.selectTuples(ids)
		}
	}
}

// checkSizes verifies node and cell vectors against the entity counts
func (p *Properties) checkSizes(nNodes, nElements int) error {
	var errs []error
	for _, n := range p.Names() {
		v := p.vectors[n]
		var want int
		switch v.ItemType() {
		case ItemNode:
			want = nNodes
		case ItemCell:
			want = nElements
		default:
			continue
		}
		if v.NumberOfTuples() != want {
			errs = append(errs, fmt.Errorf("property %q: %w: %d %s tuples, mesh has %d",
				n, ErrPropertySize, v.NumberOfTuples(), v.ItemType(), want))
		}
	}
	return errors.Join(errs...)
}
