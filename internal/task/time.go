package task

import "fmt"

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
// Values are clamped to the 00:00-23:59 range.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockTime converts minutes since midnight to "HH:MM", wrapping at 24 hours.
func ClockTime(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", (m/60)%24, m%60)
}

// ValidTime reports whether s is a well-formed "HH:MM" time.
func ValidTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	return hours < 24 && s[3] < '6'
}

// IntervalsOverlap returns true if [s1,e1) and [s2,e2) intersect.
func IntervalsOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && e1 > s2
}

// OverlapMinutes calculates the overlapping minutes between two minute ranges.
// Returns 0 if there is no overlap.
func OverlapMinutes(s1, e1, s2, e2 int) int {
	overlapStart := max(s1, s2)
	overlapEnd := min(e1, e2)

	if overlapEnd <= overlapStart {
		return 0
	}
	return overlapEnd - overlapStart
}

// FormatMinutes formats a duration in minutes as "45m", "2h" or "1h30m".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
}
