package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Finder label color ids. Color 0 means "no label".
const (
	ColorNone   = 0
	ColorGray   = 1
	ColorGreen  = 2
	ColorPurple = 3
	ColorBlue   = 4
	ColorYellow = 5
	ColorRed    = 6
	ColorOrange = 7

	MaxColor = 7
)

var colorNames = [MaxColor + 1]string{
	"None", "Gray", "Green", "Purple", "Blue", "Yellow", "Red", "Orange",
}

// Tag is a named, optionally colored Finder label attached to a file.
type Tag struct {
	Name  string `json:"name"`
	Color int    `json:"color"`
}

// NewTag creates a Tag with a trimmed name. The name must be non-empty after
// trimming and the color must be in [0, 7].
func NewTag(name string, color int) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, fmt.Errorf("%w: tag name must not be empty", ErrTypeMismatch)
	}
	if color < ColorNone || color > MaxColor {
		return Tag{}, fmt.Errorf("%w: tag color %d out of range 0-%d", ErrTypeMismatch, color, MaxColor)
	}
	return Tag{Name: name, Color: color}, nil
}

// ColorName returns the Finder name for a color id, or an error for ids
// outside [0, 7].
func ColorName(color int) (string, error) {
	if color < ColorNone || color > MaxColor {
		return "", fmt.Errorf("%w: invalid color id %d", ErrTypeMismatch, color)
	}
	return colorNames[color], nil
}

// ColorID resolves a Finder color name (case-insensitive) to its id.
func ColorID(name string) (int, bool) {
	for id, n := range colorNames {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return 0, false
}

// ReservedColor reports whether name matches one of the seven reserved label
// names (case-insensitive) and returns the associated color id. "None" is not
// a reserved label name.
func ReservedColor(name string) (int, bool) {
	id, ok := ColorID(name)
	if !ok || id == ColorNone {
		return 0, false
	}
	return id, true
}

// ParseTag parses a tag literal in the form "name" or "name,color" where
// color is either a Finder color name or an id 0-7. A bare name that is
// itself a color name yields that color.
func ParseTag(literal string) (Tag, error) {
	parts := strings.Split(literal, ",")
	if len(parts) > 2 {
		return Tag{}, fmt.Errorf("%w: more than one comma in tag literal '%s'", ErrTypeMismatch, literal)
	}

	name := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		if id, ok := ReservedColor(name); ok {
			return NewTag(colorNames[id], id)
		}
		return NewTag(name, ColorNone)
	}

	colorText := strings.TrimSpace(parts[1])
	if id, ok := ColorID(colorText); ok {
		return NewTag(name, id)
	}
	id, err := strconv.Atoi(colorText)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: invalid tag color '%s'", ErrTypeMismatch, colorText)
	}
	return NewTag(name, id)
}

// String renders a tag as "name" or "name,ColorName" for display.
func (t Tag) String() string {
	if t.Color == ColorNone {
		return t.Name
	}
	name, err := ColorName(t.Color)
	if err != nil {
		return t.Name
	}
	return t.Name + "," + name
}

// Record renders the tag in the wire format used inside the
// _kMDItemUserTags property list: "name\ncolor".
func (t Tag) Record() string {
	return fmt.Sprintf("%s\n%d", t.Name, t.Color)
}

// TagFromRecord parses the "name\ncolor" wire format. A record without the
// newline separator is a bare name with no color.
func TagFromRecord(record string) Tag {
	name, colorText, found := strings.Cut(record, "\n")
	if !found {
		return Tag{Name: name}
	}
	// Custom tags have been seen in the wild with more than one color value;
	// only the first is meaningful.
	colorText, _, _ = strings.Cut(colorText, "\n")
	color, err := strconv.Atoi(colorText)
	if err != nil || color < ColorNone || color > MaxColor {
		color = ColorNone
	}
	return Tag{Name: name, Color: color}
}
