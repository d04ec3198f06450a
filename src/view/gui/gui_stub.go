//go:build !ebiten

package gui

import (
	"github.com/pkg/errors"

	"lifepaint/src/universe"
)

//ErrNoGUI is returned by the builds without the ebiten tag
var ErrNoGUI = errors.New("the gui front-end requires building with the 'ebiten' tag")

//Run reports that the window front-end is not compiled in
func Run(universe.Universe, Options) error {
	return ErrNoGUI
}
