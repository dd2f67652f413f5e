package patterns

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDate     = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	numericDate = regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}$`)
)

// ParseDate reads the date spellings matched by dateValue. Month/day order is
// US style. Results are midnight UTC.
func ParseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return time.Time{}, false
	case isoDate.MatchString(value):
		return parseLayout("2006-1-2", value)
	case numericDate.MatchString(value):
		value = strings.NewReplacer("-", "/", ".", "/").Replace(value)
		parts := strings.Split(value, "/")
		switch len(parts[2]) {
		case 4:
			return parseLayout("1/2/2006", value)
		case 2:
			return parseLayout("1/2/06", value)
		default:
			return time.Time{}, false
		}
	default:
		return parseNamedMonth(value)
	}
}

func parseNamedMonth(value string) (time.Time, bool) {
	cleaned := strings.NewReplacer(".", " ", ",", " ").Replace(strings.ToLower(value))
	fields := strings.Fields(cleaned)
	if len(fields) != 3 || len(fields[0]) < 3 {
		return time.Time{}, false
	}
	month := fields[0][:3]
	return parseLayout("Jan 2 2006", month+" "+fields[1]+" "+fields[2])
}

func parseLayout(layout, value string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ParseAmount converts "$12,500.00" style tokens to a number.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
