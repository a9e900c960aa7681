package diagramsync

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
)

// pointsToPixels converts CSS points to pixels (96dpi / 72dpi).
const pointsToPixels = 4.0 / 3.0

var (
	svgWidthPattern  = regexp.MustCompile(`width="([\d.]+)(pt|px)"`)
	svgHeightPattern = regexp.MustCompile(`height="([\d.]+)(pt|px)"`)
)

// ReadSVGSize reads a rendered SVG and returns its declared size in pixels.
func ReadSVGSize(path string) (Size, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a renderer output in the diagrams directory
	if err != nil {
		return Size{}, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}
	size, err := ParseSVGSize(string(data))
	if err != nil {
		return Size{}, fmt.Errorf("%s: %w", path, err)
	}
	return size, nil
}

// ParseSVGSize extracts the first width and height attributes with a pt or px
// unit. Points are converted at 4/3 and values are rounded half to even.
func ParseSVGSize(svg string) (Size, error) {
	width, err := parseDimension(svg, svgWidthPattern, "width")
	if err != nil {
		return Size{}, err
	}
	height, err := parseDimension(svg, svgHeightPattern, "height")
	if err != nil {
		return Size{}, err
	}
	return Size{Width: width, Height: height}, nil
}

func parseDimension(svg string, pattern *regexp.Regexp, attr string) (int, error) {
	m := pattern.FindStringSubmatch(svg)
	if m == nil {
		return 0, fmt.Errorf("%w: svg %s attribute not found", ErrFormat, attr)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: svg %s %q: %v", ErrFormat, attr, m[1], err)
	}
	if m[2] == "pt" {
		value *= pointsToPixels
	}
	return int(math.RoundToEven(value)), nil
}
