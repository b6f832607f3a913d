package task

import (
	"testing"
	"time"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "9am", input: "09:00", want: 540},
		{name: "4pm", input: "16:00", want: 960},
		{name: "11:59pm", input: "23:59", want: 1439},
		{name: "with minutes", input: "16:30", want: 990},
		{name: "invalid short", input: "9:00", want: 0},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeToMinutes(tt.input)
			if got != tt.want {
				t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinutesToTime(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  string
	}{
		{name: "midnight", input: 0, want: "00:00"},
		{name: "4pm", input: 960, want: "16:00"},
		{name: "with minutes", input: 990, want: "16:30"},
		{name: "negative clamps to zero", input: -10, want: "00:00"},
		{name: "over 24h clamps", input: 1500, want: "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinutesToTime(tt.input)
			if got != tt.want {
				t.Errorf("MinutesToTime(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockTime(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{960, "16:00"},
		{1380, "23:00"},
		{1440, "00:00"},
		{1500, "01:00"},
	}

	for _, tt := range tests {
		if got := ClockTime(tt.input); got != tt.want {
			t.Errorf("ClockTime(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "16:00", "23:59"}
	invalid := []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-00"}

	for _, s := range valid {
		if !ValidTime(s) {
			t.Errorf("ValidTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidTime(s) {
			t.Errorf("ValidTime(%q) = true, want false", s)
		}
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"disjoint", 960, 990, 1000, 1030, false},
		{"touching end", 960, 1020, 1020, 1050, false},
		{"touching start", 1020, 1050, 960, 1020, false},
		{"contained", 960, 1080, 990, 1020, true},
		{"partial", 960, 1000, 990, 1020, true},
		{"identical", 960, 990, 960, 990, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalsOverlap(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("IntervalsOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapMinutes(t *testing.T) {
	if got := OverlapMinutes(960, 1020, 990, 1050); got != 30 {
		t.Errorf("OverlapMinutes = %d, want 30", got)
	}
	if got := OverlapMinutes(960, 990, 990, 1020); got != 0 {
		t.Errorf("OverlapMinutes adjacent = %d, want 0", got)
	}
}

func TestSlot_OverlapsWith(t *testing.T) {
	day := time.Date(2025, 1, 11, 0, 0, 0, 0, time.Local)
	a := Slot{Date: day, Start: "16:00", Duration: 60}

	tests := []struct {
		name  string
		other Slot
		want  bool
	}{
		{"same time", Slot{Date: day, Start: "16:00", Duration: 30}, true},
		{"starts inside", Slot{Date: day, Start: "16:30", Duration: 60}, true},
		{"touching", Slot{Date: day, Start: "17:00", Duration: 30}, false},
		{"other day", Slot{Date: day.AddDate(0, 0, 1), Start: "16:00", Duration: 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapsWith(tt.other); got != tt.want {
				t.Errorf("OverlapsWith = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlot_End(t *testing.T) {
	s := Slot{Start: "16:00", Duration: 90}
	if s.End() != "17:30" {
		t.Errorf("End = %q, want 17:30", s.End())
	}
	if s.EndMinutes() != 1050 {
		t.Errorf("EndMinutes = %d, want 1050", s.EndMinutes())
	}
}
