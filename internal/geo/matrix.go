package geo

// PairDistance is one entry of a DistanceMatrix.
type PairDistance struct {
	Pair
	Miles float64
}

// DistanceMatrix holds the symmetric pairwise distances of a CoordinateSet.
type DistanceMatrix struct {
	names   []string
	values  []float64
	entries []PairDistance
}

// Size returns the number of coordinates covered.
func (m DistanceMatrix) Size() int { return len(m.names) }

// Between returns the distance in miles between indices i and j.
func (m DistanceMatrix) Between(i, j int) float64 {
	return m.values[i*len(m.names)+j]
}

// Entries returns one entry per unordered pair in pair order.
func (m DistanceMatrix) Entries() []PairDistance {
	out := make([]PairDistance, len(m.entries))
	copy(out, m.entries)
	return out
}

// Name returns the coordinate name at index i.
func (m DistanceMatrix) Name(i int) string { return m.names[i] }
