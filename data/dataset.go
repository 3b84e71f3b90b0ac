package data

import (
	"errors"
	"fmt"
)

var ErrMisaligned = errors.New("misaligned dataset")

// Dataset is the concatenated training input of one worker: one contiguous
// feature block plus aligned label, optional weight and optional group
// columns.
type Dataset struct {
	X Block
	Y Vector
	W Vector
	G Groups
}

// Validate checks the row-alignment invariant:
// rows(X) == len(Y) == len(W) when weights are present, and sum(G) ==
// rows(X) when groups are present.
func (d *Dataset) Validate() error {
	rows := d.X.Rows()
	if len(d.Y) != rows {
		return fmt.Errorf("%w: %d rows, %d labels", ErrMisaligned, rows, len(d.Y))
	}
	if d.W != nil && len(d.W) != rows {
		return fmt.Errorf("%w: %d rows, %d weights", ErrMisaligned, rows, len(d.W))
	}
	if d.G != nil && d.G.Total() != rows {
		return fmt.Errorf("%w: %d rows, group sizes sum to %d", ErrMisaligned, rows, d.G.Total())
	}
	return nil
}
