package universe

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//grid text format limits
const (
	MinFileDimension = 5
	MaxFileWidth     = 100000
	DefMaxCells      = 10000000

	maxLineLength = 16 << 20
)

//ParseHeader parses the "<width> <height>" header line
func ParseHeader(line string) (width int, height int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, errors.Wrapf(ErrParse, "header %q: want width and height", line)
	}
	if width, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, errors.Wrapf(ErrParse, "header width %q", fields[0])
	}
	if height, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, errors.Wrapf(ErrParse, "header height %q", fields[1])
	}
	return width, height, nil
}

//clampFileDimensions clamps the declared size to the loadable range
func clampFileDimensions(width int, height int, maxCells int) (int, int) {
	if maxCells <= 0 {
		maxCells = DefMaxCells
	}
	width = clamp(width, MinFileDimension, MaxFileWidth)
	height = clamp(height, MinFileDimension, max(MinFileDimension, maxCells/width))
	return width, height
}

//DecodeArea builds the area from the body lines of the grid file
//declared dimensions are clamped, short lines and missing rows stay dead,
//empty lines are skipped and any character other than '1' is dead
func DecodeArea(lines []string, declaredWidth int, declaredHeight int, maxCells int) Area {
	width, height := clampFileDimensions(declaredWidth, declaredHeight, maxCells)
	a := createArea(width, height)
	rows := min(declaredHeight, height)
	cols := min(declaredWidth, width)
	row := 0
	for _, line := range lines {
		if row >= rows {
			break
		}
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		for col := 0; col < min(len(line), cols); col++ {
			a.Entities[row][col] = line[col] == '1'
		}
		row++
	}
	return a
}

//ReadArea reads the grid text format from r
func ReadArea(r io.Reader, maxCells int) (Area, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	header := ""
	for sc.Scan() {
		if header = strings.TrimSpace(sc.Text()); header != "" {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return Area{}, errors.Wrap(err, "read grid")
	}
	width, height, err := ParseHeader(header)
	if err != nil {
		return Area{}, err
	}
	_, rows := clampFileDimensions(width, height, maxCells)
	lines := make([]string, 0, min(rows, 1<<16))
	for len(lines) < rows && sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Area{}, errors.Wrap(err, "read grid")
	}
	return DecodeArea(lines, width, height, maxCells), nil
}

//WriteArea writes the area in the grid text format
func WriteArea(w io.Writer, a Area) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strconv.Itoa(a.Width) + " " + strconv.Itoa(a.Height) + "\n"); err != nil {
		return err
	}
	line := make([]byte, a.Width+1)
	line[a.Width] = '\n'
	for _, row := range a.Entities {
		for x, c := range row {
			if c {
				line[x] = '1'
			} else {
				line[x] = '0'
			}
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
