package data

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyConcat  = errors.New("nothing to concatenate")
	ErrColsMismatch = errors.New("column count mismatch")
)

// Concat joins blocks row-wise into one contiguous block. All blocks must
// share a concrete representation and a column count; the result keeps
// that representation.
func Concat(blocks []Block) (Block, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyConcat
	}
	switch blocks[0].(type) {
	case *Dense:
		return concatDense(blocks)
	case *Frame:
		return concatFrames(blocks)
	case *CSR:
		return concatCSR(blocks)
	default:
		return nil, fmt.Errorf("unsupported block type %T", blocks[0])
	}
}

func concatDense(blocks []Block) (*Dense, error) {
	cols := blocks[0].Cols()
	var rows int
	for _, b := range blocks {
		if b.Cols() != cols {
			return nil, ErrColsMismatch
		}
		rows += b.Rows()
	}
	out := make([]float64, 0, rows*cols)
	for _, b := range blocks {
		m, ok := b.(*Dense)
		if !ok {
			return nil, fmt.Errorf("mixed block types: %T", b)
		}
		out = append(out, m.Data...)
	}
	return &Dense{Data: out, NumRows: rows, NumCols: cols}, nil
}

func concatFrames(blocks []Block) (*Frame, error) {
	first := blocks[0].(*Frame)
	values := make([]Block, len(blocks))
	var index []int64
	for i, b := range blocks {
		f, ok := b.(*Frame)
		if !ok {
			return nil, fmt.Errorf("mixed block types: %T", b)
		}
		values[i] = f.Values
		index = append(index, f.Index...)
	}
	dense, err := concatDense(values)
	if err != nil {
		return nil, err
	}
	return &Frame{Values: dense, Index: index, Columns: first.Columns}, nil
}

func concatCSR(blocks []Block) (*CSR, error) {
	cols := blocks[0].Cols()
	out := &CSR{Indptr: []int{0}, NumCols: cols}
	for _, b := range blocks {
		m, ok := b.(*CSR)
		if !ok {
			return nil, fmt.Errorf("mixed block types: %T", b)
		}
		if m.NumCols != cols {
			return nil, ErrColsMismatch
		}
		base := len(out.Values)
		for i := 1; i < len(m.Indptr); i++ {
			out.Indptr = append(out.Indptr, base+m.Indptr[i])
		}
		out.Indices = append(out.Indices, m.Indices...)
		out.Values = append(out.Values, m.Values...)
	}
	return out, nil
}

// ConcatVectors joins vector chunks in order.
func ConcatVectors(vs []Vector) Vector {
	var n int
	for _, v := range vs {
		n += len(v)
	}
	out := make(Vector, 0, n)
	for _, v := range vs {
		out = append(out, v...)
	}
	return out
}

// ConcatGroups joins group-size chunks in order.
func ConcatGroups(gs []Groups) Groups {
	var n int
	for _, g := range gs {
		n += len(g)
	}
	out := make(Groups, 0, n)
	for _, g := range gs {
		out = append(out, g...)
	}
	return out
}
