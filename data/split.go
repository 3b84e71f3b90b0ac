package data

// chunkSizes splits n rows into k near-equal chunks; the first n%k chunks
// get the extra row, so chunk order is deterministic.
func chunkSizes(n, k int) []int {
	sizes := make([]int, k)
	base, rem := n/k, n%k
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

// SplitDense splits a matrix into k row chunks in order.
func SplitDense(m *Dense, k int) []*Dense {
	out := make([]*Dense, 0, k)
	var lo int
	for _, size := range chunkSizes(m.NumRows, k) {
		out = append(out, m.SliceRows(lo, lo+size))
		lo += size
	}
	return out
}

// SplitVector splits a vector into k chunks aligned with SplitDense.
func SplitVector(v Vector, k int) []Vector {
	out := make([]Vector, 0, k)
	var lo int
	for _, size := range chunkSizes(len(v), k) {
		chunk := make(Vector, size)
		copy(chunk, v[lo:lo+size])
		out = append(out, chunk)
		lo += size
	}
	return out
}
