package youtube

import (
	"regexp"
	"strconv"
)

var iso8601DurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISO8601Duration converts an ISO-8601 duration like "PT1H2M3S" into
// seconds. Unparseable input yields 0.
func ParseISO8601Duration(duration string) int {
	matches := iso8601DurationRegex.FindStringSubmatch(duration)
	if matches == nil {
		return 0
	}

	days := atoiOrZero(matches[1])
	hours := atoiOrZero(matches[2])
	minutes := atoiOrZero(matches[3])
	seconds := atoiOrZero(matches[4])

	return ((days*24+hours)*60+minutes)*60 + seconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
