package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/macmeta/macmeta"
	"github.com/macmeta/macmeta/data"
)

// parseValue converts command line arguments into a canonical value of the
// attribute's kind. List attributes take one argument per element; tags take
// "name[,color]" literals.
func parseValue(attr *macmeta.Attribute, args []string) (data.Value, error) {
	switch attr.Kind {
	case data.KindString:
		if len(args) != 1 {
			return data.Value{}, fmt.Errorf("attribute '%s' takes exactly one value", attr.Name)
		}
		return data.StringValue(args[0]), nil

	case data.KindInteger:
		if len(args) != 1 {
			return data.Value{}, fmt.Errorf("attribute '%s' takes exactly one value", attr.Name)
		}
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return data.Value{}, fmt.Errorf("attribute '%s' expects an integer: %w", attr.Name, err)
		}
		return data.IntValue(n), nil

	case data.KindBoolean:
		if len(args) != 1 {
			return data.Value{}, fmt.Errorf("attribute '%s' takes exactly one value", attr.Name)
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return data.Value{}, fmt.Errorf("attribute '%s' expects a boolean: %w", attr.Name, err)
		}
		return data.BoolValue(b), nil

	case data.KindDateTime:
		if len(args) != 1 {
			return data.Value{}, fmt.Errorf("attribute '%s' takes exactly one value", attr.Name)
		}
		t, err := parseTime(args[0])
		if err != nil {
			return data.Value{}, err
		}
		return data.TimeValue(t), nil

	case data.KindStringList:
		return data.StringListValue(args...), nil

	case data.KindDateTimeList:
		times := make([]time.Time, len(args))
		for i, arg := range args {
			t, err := parseTime(arg)
			if err != nil {
				return data.Value{}, err
			}
			times[i] = t
		}
		return data.TimeListValue(times...), nil

	case data.KindTagList:
		tags := make([]data.Tag, len(args))
		for i, arg := range args {
			tag, err := data.ParseTag(arg)
			if err != nil {
				return data.Value{}, err
			}
			tags[i] = tag
		}
		return data.TagListValue(tags...), nil
	}
	return data.Value{}, fmt.Errorf("attribute '%s' has unsupported kind %s", attr.Name, attr.Kind)
}

// parseElement converts one argument into the element shape Remove and
// Discard expect: a name for tags, a string or datetime for the other lists.
func parseElement(attr *macmeta.Attribute, arg string) (data.Value, error) {
	switch attr.Kind {
	case data.KindTagList:
		tag, err := data.ParseTag(arg)
		if err != nil {
			return data.Value{}, err
		}
		return data.StringValue(tag.Name), nil
	case data.KindDateTimeList:
		t, err := parseTime(arg)
		if err != nil {
			return data.Value{}, err
		}
		return data.TimeValue(t), nil
	default:
		return data.StringValue(arg), nil
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(text string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, text); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime '%s'", text)
}
