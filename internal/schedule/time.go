package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseHHMM parses a 24-hour "HH:MM" wall-clock time.
func ParseHHMM(s string) (hour, minute int, err error) {
	m := hhmmRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("bad time %q, want HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

// ParseHoursList parses a comma-separated hour list like "8, 12, 18",
// dropping malformed and out-of-range entries and duplicates.
func ParseHoursList(s string) []int {
	seen := make(map[int]bool)
	var hours []int
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || h < 0 || h > 23 || seen[h] {
			continue
		}
		seen[h] = true
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}
