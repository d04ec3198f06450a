package universe

/*
	Simple Universe implementation with two buffers
	All cells state is calculated to the second buffer and then buffers are swapped
*/
type SimpleUniverse struct {
	*BaseUniverse
	tmpBuff Area
}

func NewSimpleUniverse(o *Options, stateCh chan Status) Universe {
	su := SimpleUniverse{BaseUniverse: NewBaseUniverse(o, stateCh)}
	//redefine the nextIteration
	su.BaseUniverse.nextIteration = su.nextIteration
	su.options.Advanced["engine"] = "simple"
	return &su
}

func (su *SimpleUniverse) nextIteration() (liveCells int, changed bool) {
	cur := su.area.Area
	//the area could be replaced by resize or load since the last call
	if su.tmpBuff.Width != cur.Width || su.tmpBuff.Height != cur.Height {
		su.tmpBuff = createArea(cur.Width, cur.Height)
	}
	for y := range cur.Entities {
		for x := range cur.Entities[y] {
			nextState := cur.cellNextState(x, y)
			if nextState {
				liveCells++
			}
			changed = changed || nextState != cur.Entities[y][x]
			su.tmpBuff.Entities[y][x] = nextState
		}
	}
	su.area.Area, su.tmpBuff = su.tmpBuff, cur
	return
}
