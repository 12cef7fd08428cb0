package yolods

// YOLO label format specific functionality.

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Box is an axis-aligned bounding box in absolute pixel coordinates.
type Box struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Width is the box width.
func (b Box) Width() float64 {
	return b.XMax - b.XMin
}

// Height is the box height.
func (b Box) Height() float64 {
	return b.YMax - b.YMin
}

// BoxFromPoints returns the axis-aligned envelope of points. Each point must hold at least two
// values (x, y) and there must be at least one point.
func BoxFromPoints(points [][]float64) (Box, error) {
	if len(points) == 0 {
		return Box{}, errors.New("no points")
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if len(p) < 2 {
			return Box{}, errors.Errorf("point %d has %d coordinates, want 2", i, len(p))
		}
		xs[i] = p[0]
		ys[i] = p[1]
	}

	return Box{
		XMin: floats.Min(xs),
		XMax: floats.Max(xs),
		YMin: floats.Min(ys),
		YMax: floats.Max(ys),
	}, nil
}

// ToYOLO converts the box b in an image of the given size to normalised center and size values.
// The image width and height must be positive.
func ToYOLO(width, height int, b Box) (cx, cy, w, h float64) {
	fw, fh := float64(width), float64(height)
	cx = (b.XMin + b.XMax) / 2 / fw
	cy = (b.YMin + b.YMax) / 2 / fh
	w = (b.XMax - b.XMin) / fw
	h = (b.YMax - b.YMin) / fh
	return cx, cy, w, h
}

// FromYOLO is the inverse of ToYOLO.
func FromYOLO(width, height int, cx, cy, w, h float64) Box {
	fw, fh := float64(width), float64(height)
	return Box{
		XMin: (cx - w/2) * fw,
		XMax: (cx + w/2) * fw,
		YMin: (cy - h/2) * fh,
		YMax: (cy + h/2) * fh,
	}
}

// LabelLine is a single object line within a YOLO label file.
type LabelLine struct {
	ClassID int
	CX, CY  float64 // Box center, range [0, 1].
	W, H    float64 // Box size, range [0, 1].
}

// NewLabelLine normalises b for an image of the given size.
func NewLabelLine(classID, width, height int, b Box) LabelLine {
	l := LabelLine{ClassID: classID}
	l.CX, l.CY, l.W, l.H = ToYOLO(width, height, b)
	return l
}

// String formats the line as "class cx cy w h".
func (l LabelLine) String() string {
	return strings.Join([]string{
		strconv.Itoa(l.ClassID),
		formatCoord(l.CX), formatCoord(l.CY),
		formatCoord(l.W), formatCoord(l.H),
	}, " ")
}

// InUnitRange reports whether all geometric values are in [0, 1].
func (l LabelLine) InUnitRange() bool {
	for _, v := range [4]float64{l.CX, l.CY, l.W, l.H} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// ParseLabelLine parses the values of a single YOLO label line.
func ParseLabelLine(line string) (LabelLine, error) {
	tokens := strings.Fields(line)
	if len(tokens) != 5 {
		return LabelLine{}, errors.Errorf("expected 5 tokens in %q, got %d", line, len(tokens))
	}

	id, err := strconv.Atoi(tokens[0])
	if err != nil {
		return LabelLine{}, errors.Errorf("invalid class id in %q: %v", line, err)
	}
	l := LabelLine{ClassID: id}
	for i, dst := range []*float64{&l.CX, &l.CY, &l.W, &l.H} {
		if *dst, err = strconv.ParseFloat(tokens[i+1], 64); err != nil {
			return LabelLine{}, errors.Errorf("unexpected values in %q: %v", line, err)
		}
	}

	return l, nil
}

// formatLabelFile joins lines with "\n" and no trailing newline.
func formatLabelFile(lines []LabelLine) string {
	s := make([]string, len(lines))
	for i, l := range lines {
		s[i] = l.String()
	}
	return strings.Join(s, "\n")
}

// formatCoord renders v in its shortest round-trip form, keeping a ".0" suffix on integral
// values so that 1 is written as "1.0".
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
