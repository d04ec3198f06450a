package universe

//BuiltinTemplates are the seeding templates registered by the application
var BuiltinTemplates = []Template{
	{"sample", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
	{"glider", "the smallest spaceship, moves diagonally", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"blinker", "period 2 oscillator", [][]int{{1, 2}, {2, 2}, {3, 2}}},
	{"block", "still life", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}},
	{"rpentomino", "methuselah, stabilizes after 1103 generations", [][]int{{21, 20}, {22, 20}, {20, 21}, {21, 21}, {21, 22}}},
}
