package incidents

import (
	"fmt"
	"strings"
	"time"
)

const Unset = "-"

// Duration renders the elapsed time between start and end. A nil end means
// the incident is still open and now is used instead.
func Duration(start, end *time.Time, now time.Time) string {
	if start == nil {
		return Unset
	}

	to := now
	if end != nil {
		to = *end
	}

	return formatElapsed(to.Sub(*start))
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0 seconds"
	}

	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
		{"second", time.Second},
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size

		name := u.name
		if n != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}

	return strings.Join(parts, " ")
}
