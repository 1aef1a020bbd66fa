package tgraph

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// FormattedTime is a time string paired with the format that parses it.
// Format may be a Go reference layout or a strftime pattern.
type FormattedTime struct {
	Value  string
	Format string
}

// defaultLayouts are tried, in order, for time strings with no format.
var defaultLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TryIntoTime resolves a caller-supplied time to epoch milliseconds.
// Integers are taken as already canonical.
func TryIntoTime(t any) (int64, error) {
	switch x := t.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint64:
		return fromUnsigned(x)
	case uint:
		return fromUnsigned(uint64(x))
	case time.Time:
		return x.UnixMilli(), nil
	case string:
		return ParseTime(x, "")
	case FormattedTime:
		return ParseTime(x.Value, x.Format)
	case nil:
		return 0, fmt.Errorf("%w: nil", ErrUnsupportedTime)
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedTime, t)
}

func fromUnsigned(x uint64) (int64, error) {
	if x > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedTime, x)
	}
	return int64(x), nil
}

// ParseTime parses value with format, or with the default layouts when
// format is empty, returning epoch milliseconds. Values without a zone are
// read as UTC.
func ParseTime(value, format string) (int64, error) {
	if format == "" {
		var firstErr error
		for _, layout := range defaultLayouts {
			parsed, err := time.Parse(layout, value)
			if err == nil {
				return parsed.UnixMilli(), nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		return 0, &ParseTimeError{Input: value, Err: firstErr}
	}

	layout := format
	if strings.Contains(format, "%") {
		var err error
		layout, err = StrftimeLayout(format)
		if err != nil {
			return 0, &ParseTimeError{Input: value, Format: format, Err: err}
		}
	}
	parsed, err := time.Parse(layout, value)
	if err != nil {
		return 0, &ParseTimeError{Input: value, Format: format, Err: err}
	}
	return parsed.UnixMilli(), nil
}

var strftimeDirectives = map[string]string{
	"Y":   "2006",
	"y":   "06",
	"m":   "01",
	"b":   "Jan",
	"h":   "Jan",
	"B":   "January",
	"d":   "02",
	"e":   "_2",
	"a":   "Mon",
	"A":   "Monday",
	"H":   "15",
	"I":   "03",
	"M":   "04",
	"S":   "05",
	"p":   "PM",
	"z":   "-0700",
	":z":  "-07:00",
	"Z":   "MST",
	"F":   "2006-01-02",
	"T":   "15:04:05",
	"D":   "01/02/06",
	"R":   "15:04",
	"f":   "000000000",
	"3f":  "000",
	"6f":  "000000",
	"9f":  "000000000",
	".f":  ".999999999",
	".3f": ".000",
	".6f": ".000000",
	".9f": ".000000000",
	"%":   "%",
}

var errUnknownDirective = errors.New("unknown strftime directive")

// StrftimeLayout translates a strftime pattern into a Go reference layout.
func StrftimeLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		matched := false
		// Longest directive first: "%.3f" before "%.f" before "%f".
		for n := 3; n >= 1; n-- {
			if i+1+n > len(format) {
				continue
			}
			if layout, ok := strftimeDirectives[format[i+1:i+1+n]]; ok {
				b.WriteString(layout)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return "", fmt.Errorf("%w at offset %d in %q", errUnknownDirective, i, format)
		}
	}
	return b.String(), nil
}
