package medications

import (
	"reflect"
	"testing"
)

func TestDefaultSchedule_AllFrequencies(t *testing.T) {
	cases := []struct {
		freq Frequency
		want []string
	}{
		{FreqOnceDaily, []string{"09:00"}},
		{FreqTwiceDaily, []string{"08:00", "20:00"}},
		{FreqThreeTimesDaily, []string{"08:00", "13:00", "20:00"}},
		{FreqEvery4Hours, []string{"08:00", "12:00", "16:00", "20:00"}},
		{FreqEvery6Hours, []string{"06:00", "12:00", "18:00", "00:00"}},
		{FreqEvery8Hours, []string{"08:00", "16:00", "00:00"}},
		{FreqEvery12Hours, []string{"08:00", "20:00"}},
		{FreqAsNeeded, []string{"09:00"}},
		{FreqWeekly, []string{"09:00"}},
		{FreqMonthly, []string{"09:00"}},
	}

	for _, c := range cases {
		got := DefaultSchedule(c.freq)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("DefaultSchedule(%q) = %v, want %v", c.freq, got, c.want)
		}
	}
}

func TestDefaultSchedule_UnknownFallsBack(t *testing.T) {
	got := DefaultSchedule(Frequency("whenever"))
	if !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Fatalf("unknown frequency = %v, want [09:00]", got)
	}
}

func TestDefaultSchedule_ReturnsCopy(t *testing.T) {
	a := DefaultSchedule(FreqTwiceDaily)
	a[0] = "03:33"
	b := DefaultSchedule(FreqTwiceDaily)
	if b[0] != "08:00" {
		t.Fatalf("DefaultSchedule shares backing array: %v", b)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"8:5", 485, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"ocho", 0, true},
		{"", 0, true},
		{"08:00:00", 0, true},
	}

	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("8:5")
	if err != nil {
		t.Fatalf("NormalizeClock: %v", err)
	}
	if got != "08:05" {
		t.Fatalf("NormalizeClock(8:5) = %q, want 08:05", got)
	}
}
