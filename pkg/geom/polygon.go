package geom

import (
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/matzehuels/nodetree/pkg/errors"
)

// Polygon is an ordered sequence of vertices, implicitly closed from the
// last vertex back to the first.
type Polygon []Point

// Contains reports whether p lies inside the polygon (nonzero winding rule).
func (pg Polygon) Contains(p Point) bool { return PointInPolygon(p, pg) }

// Bounds returns the bounding box of the vertices.
func (pg Polygon) Bounds() Rect { return Bounds(pg) }

// PathData renders the polygon as a closed SVG path.
func (pg Polygon) PathData() string { return PathData(pg) }

var _ Region = Polygon(nil)

// PathData renders points as SVG path data: a move to the first point, a
// line to each following point, and a closing Z. No points yield "".
func PathData(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

func formatCoord(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// ParsePath converts SVG path data made of M, L and Z commands (absolute
// coordinates, space or comma separated) back into a Polygon. Repeated
// coordinate pairs after a command continue that command, as in SVG.
func ParsePath(d string) (Polygon, error) {
	tokens := tokenizePath(d)

	var (
		poly Polygon
		cmd  byte
	)
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if isCommand(tok) {
			cmd = tok[0]
			i++
			if cmd == 'Z' || cmd == 'z' {
				continue
			}
			if i >= len(tokens) || isCommand(tokens[i]) {
				return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "path command %c without coordinates", cmd)
			}
			continue
		}
		switch cmd {
		case 'M', 'L':
		case 0:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "path data must start with a command, got %q", tok)
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported path command %c", cmd)
		}
		if i+1 >= len(tokens) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "odd number of coordinates in path data")
		}
		x, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse x coordinate %q", tokens[i])
		}
		y, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse y coordinate %q", tokens[i+1])
		}
		poly = append(poly, Pt(float32(x), float32(y)))
		i += 2
	}
	return poly, nil
}

func isCommand(tok string) bool {
	return len(tok) == 1 && unicode.IsLetter(rune(tok[0]))
}

// tokenizePath splits path data into command letters and numbers. Commands
// may be glued to numbers ("M10,10L20Z"); e and E belong to numbers.
func tokenizePath(d string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range d {
		switch {
		case unicode.IsSpace(r) || r == ',':
			flush()
		case unicode.IsLetter(r) && r != 'e' && r != 'E':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
