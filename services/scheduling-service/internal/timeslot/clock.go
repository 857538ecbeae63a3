package timeslot

import "fmt"

// ToMinutes parses a zero-padded 24h "HH:MM" clock string into a minute
// offset from midnight.
func ToMinutes(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, fmt.Errorf("invalid time format %q, want HH:MM", clock)
	}
	h, ok1 := twoDigits(clock[0], clock[1])
	m, ok2 := twoDigits(clock[3], clock[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time format %q, want HH:MM", clock)
	}
	return h*60 + m, nil
}

// ToClock is the inverse of ToMinutes, zero-padded.
func ToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
