// Package data holds the partition payloads the coordinator moves between
// workers: feature blocks in dense, framed and sparse layouts, plus the
// aligned label, weight and group vectors.
package data

import "fmt"

// Block is a two-dimensional chunk of rows.
type Block interface {
	Rows() int
	Cols() int
}

// Dense is a row-major matrix.
type Dense struct {
	Data    []float64
	NumRows int
	NumCols int
}

func NewDense(rows, cols int, values []float64) *Dense {
	if len(values) != rows*cols {
		panic(fmt.Sprintf("data: dense %dx%d needs %d values, got %d", rows, cols, rows*cols, len(values)))
	}
	return &Dense{Data: values, NumRows: rows, NumCols: cols}
}

func Zeros(rows, cols int) *Dense {
	return &Dense{Data: make([]float64, rows*cols), NumRows: rows, NumCols: cols}
}

func (m *Dense) Rows() int { return m.NumRows }
func (m *Dense) Cols() int { return m.NumCols }

func (m *Dense) Row(i int) []float64 {
	return m.Data[i*m.NumCols : (i+1)*m.NumCols]
}

func (m *Dense) At(i, j int) float64 { return m.Data[i*m.NumCols+j] }

// SliceRows copies the half-open row range [lo, hi) into a new Dense.
func (m *Dense) SliceRows(lo, hi int) *Dense {
	out := make([]float64, (hi-lo)*m.NumCols)
	copy(out, m.Data[lo*m.NumCols:hi*m.NumCols])
	return &Dense{Data: out, NumRows: hi - lo, NumCols: m.NumCols}
}

// Frame is a dense block carrying row-alignment metadata: a row index and
// optional column names. Outputs computed from a Frame preserve its index.
type Frame struct {
	Values  *Dense
	Index   []int64
	Columns []string
}

func (f *Frame) Rows() int { return f.Values.Rows() }
func (f *Frame) Cols() int { return f.Values.Cols() }

// CSR is a sparse matrix in compressed sparse row layout.
type CSR struct {
	Indptr  []int
	Indices []int
	Values  []float64
	NumCols int
}

func (m *CSR) Rows() int { return len(m.Indptr) - 1 }
func (m *CSR) Cols() int { return m.NumCols }

// ToDense expands the sparse rows, mostly for engines without sparse
// support and for tests.
func (m *CSR) ToDense() *Dense {
	out := Zeros(m.Rows(), m.NumCols)
	for i := 0; i < m.Rows(); i++ {
		for k := m.Indptr[i]; k < m.Indptr[i+1]; k++ {
			out.Data[i*m.NumCols+m.Indices[k]] = m.Values[k]
		}
	}
	return out
}

// Shape is pre-materialization metadata attached to lazy partitions, so
// rank errors can be rejected before any computation is triggered.
type Shape struct {
	NumRows int
	NumCols int
}
