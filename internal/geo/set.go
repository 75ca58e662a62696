package geo

import "iter"

// Pair is an unordered pair of set indices with I < J.
type Pair struct {
	I, J int
}

// CoordinateSet is an insertion-ordered collection of uniquely named
// coordinates. The zero value is an empty, usable set.
type CoordinateSet struct {
	items []Coordinate
	index map[string]int
}

// NewCoordinateSet returns a set holding coords in order. It fails on the
// first duplicate name.
func NewCoordinateSet(coords ...Coordinate) (*CoordinateSet, error) {
	s := &CoordinateSet{}
	for _, c := range coords {
		if err := s.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends c. A failed add leaves the set unchanged.
func (s *CoordinateSet) Add(c Coordinate) error {
	if c.name == "" {
		return &InvalidRangeError{Field: "name"}
	}
	if _, ok := s.index[c.name]; ok {
		return &DuplicateNameError{Name: c.name}
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}

	s.index[c.name] = len(s.items)
	s.items = append(s.items, c)
	return nil
}

// AddPoint validates raw values and appends the resulting coordinate.
func (s *CoordinateSet) AddPoint(name string, lon, lat float64, color string) error {
	c, err := NewCoordinate(name, lon, lat, color)
	if err != nil {
		return err
	}
	return s.Add(c)
}

// Len returns the number of coordinates.
func (s *CoordinateSet) Len() int { return len(s.items) }

// At returns the coordinate at insertion index i.
func (s *CoordinateSet) At(i int) Coordinate { return s.items[i] }

// Index returns the insertion index of name.
func (s *CoordinateSet) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// All returns a copy of the coordinates in insertion order.
func (s *CoordinateSet) All() []Coordinate {
	out := make([]Coordinate, len(s.items))
	copy(out, s.items)
	return out
}

// Pairs yields every unordered pair (i, j), i < j, ordered by i then j.
// The sequence can be ranged over any number of times.
func (s *CoordinateSet) Pairs() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		n := len(s.items)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !yield(Pair{I: i, J: j}) {
					return
				}
			}
		}
	}
}

// Midpoint returns the arithmetic mean of the two coordinates. It is meant
// for label placement only, it is not a geodesic midpoint.
func (s *CoordinateSet) Midpoint(i, j int) (lon, lat float64) {
	a, b := s.items[i], s.items[j]
	return (a.lon + b.lon) / 2, (a.lat + b.lat) / 2
}

// Matrix computes the pairwise distance matrix of the set.
func (s *CoordinateSet) Matrix() DistanceMatrix {
	n := len(s.items)
	m := DistanceMatrix{
		names:  make([]string, n),
		values: make([]float64, n*n),
	}
	for i, c := range s.items {
		m.names[i] = c.name
	}

	for p := range s.Pairs() {
		d := s.items[p.I].DistanceTo(s.items[p.J])
		m.values[p.I*n+p.J] = d
		m.values[p.J*n+p.I] = d
		m.entries = append(m.entries, PairDistance{Pair: p, Miles: d})
	}

	return m
}
