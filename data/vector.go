package data

// Vector is a single column of values: labels, weights or scores.
type Vector []float64

// Groups holds query-group sizes for ranking tasks. The sum of all sizes
// must equal the row count of the block the groups belong to.
type Groups []int

func (g Groups) Total() int {
	var n int
	for _, size := range g {
		n += size
	}
	return n
}

// PartTuple is the payload of one fused partition: feature rows plus the
// aligned label, weight and group chunks. Weight and group chunks are nil
// when the round was planned without them. A tuple is never mutated after
// it is materialized.
type PartTuple struct {
	X Block
	Y Vector
	W Vector
	G Groups
}
