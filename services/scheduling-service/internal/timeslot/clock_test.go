package timeslot

import "testing"

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"08:30", 510},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.in)
		if err != nil {
			t.Fatalf("ToMinutes(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToMinutes_Invalid(t *testing.T) {
	for _, in := range []string{"", "8:00", "08:0", "24:00", "12:60", "ab:cd", "08-00", "08:00:00"} {
		if _, err := ToMinutes(in); err == nil {
			t.Fatalf("ToMinutes(%q): expected error", in)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < 24*60; m++ {
		clock := ToClock(m)
		back, err := ToMinutes(clock)
		if err != nil {
			t.Fatalf("ToMinutes(ToClock(%d)): %v", m, err)
		}
		if back != m {
			t.Fatalf("round trip %d -> %q -> %d", m, clock, back)
		}
	}
}
