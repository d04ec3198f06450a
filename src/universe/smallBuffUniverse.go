package universe

/*
	Universe implementation with buffers optimization
	nextIteration uses small buffer to store the current and previous lines only.
    the first line of this buffer is copied to the main buffer as calculating moves to the next line
	also here we have small optimization to reduce memory copying
*/

type SmallBuffUniverse struct {
	*BaseUniverse
	tmpBuff Area
}

func NewSmallBuffUniverse(o *Options, stateCh chan Status) Universe {
	su := SmallBuffUniverse{BaseUniverse: NewBaseUniverse(o, stateCh)}
	//redefine the nextIteration
	su.BaseUniverse.nextIteration = su.nextIteration
	su.options.Advanced["engine"] = "smallBuff"
	return &su
}

//nextIteration writes the line y-1 back only after the line y is calculated,
//so every line is calculated from the unmodified previous generation
func (su *SmallBuffUniverse) nextIteration() (liveCells int, changed bool) {
	a := su.area.Area
	if su.tmpBuff.Width != a.Width {
		su.tmpBuff = createArea(a.Width, 2)
	}
	for y := range a.Entities {
		for x := range a.Entities[y] {
			nextState := a.cellNextState(x, y)
			if nextState {
				liveCells++
			}
			changed = changed || nextState != a.Entities[y][x]
			su.tmpBuff.Entities[1][x] = nextState
		}
		if y-1 >= 0 {
			copy(a.Entities[y-1], su.tmpBuff.Entities[0])
		}
		su.tmpBuff.Entities[0], su.tmpBuff.Entities[1] = su.tmpBuff.Entities[1], su.tmpBuff.Entities[0]
	}
	copy(a.Entities[a.Height-1], su.tmpBuff.Entities[0])
	return
}
