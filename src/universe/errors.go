package universe

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	//ErrInvalidDimensions is returned for non-positive or over-cap grid sizes
	ErrInvalidDimensions = errors.New("invalid dimensions")
	//ErrParse is returned when the grid text has no valid header
	ErrParse = errors.New("parse error")
	//ErrOutOfBounds is returned by cell writes outside the grid
	ErrOutOfBounds = errors.New("out of bounds")
	//ErrIO matches every *IOError
	ErrIO = errors.New("io error")
)

//IOError describes a failed file operation on a grid file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

//Is makes errors.Is(err, ErrIO) true for any IOError
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

//checkDimensions validates the grid size against the cells cap
func checkDimensions(width int, height int, maxCells int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "%d x %d", width, height)
	}
	if maxCells > 0 && width > maxCells/height {
		return errors.Wrapf(ErrInvalidDimensions, "%d x %d exceeds %d cells", width, height, maxCells)
	}
	return nil
}
