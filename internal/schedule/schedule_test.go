package schedule

import (
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	h, m, err := ParseHHMM("09:30")
	if err != nil || h != 9 || m != 30 {
		t.Fatalf("got %d:%d err=%v", h, m, err)
	}
	h, m, err = ParseHHMM("23:59")
	if err != nil || h != 23 || m != 59 {
		t.Fatalf("got %d:%d err=%v", h, m, err)
	}
	for _, bad := range []string{"24:00", "9:5", "12:60", "noon", ""} {
		if _, _, err := ParseHHMM(bad); err == nil {
			t.Fatalf("ParseHHMM(%q) accepted", bad)
		}
	}
}

func TestParseHoursList(t *testing.T) {
	got := ParseHoursList("18, 8, 12, 8, 25, x")
	want := []int{8, 12, 18}
	if len(got) != len(want) {
		t.Fatalf("got %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %#v, want %#v", got, want)
		}
	}
	if got := ParseHoursList(""); got != nil {
		t.Fatalf("empty input: %#v", got)
	}
}

func TestCronExpr(t *testing.T) {
	cases := []struct {
		spec Spec
		want string
	}{
		{Spec{}, "0 * * * *"},
		{Spec{Mode: "hourly"}, "0 * * * *"},
		{Spec{Mode: "daily", Time: "09:30"}, "30 9 * * *"},
		{Spec{Mode: "hours", Hours: "8,12,18", Minute: 15}, "15 8,12,18 * * *"},
		{Spec{Mode: "off"}, ""},
	}
	for _, c := range cases {
		got, err := cronExpr(c.spec)
		if err != nil {
			t.Fatalf("cronExpr(%+v): %v", c.spec, err)
		}
		if got != c.want {
			t.Fatalf("cronExpr(%+v) = %q, want %q", c.spec, got, c.want)
		}
	}

	bad := []Spec{
		{Mode: "daily", Time: "25:00"},
		{Mode: "hours", Hours: "x"},
		{Mode: "weekly"},
	}
	for _, s := range bad {
		if _, err := cronExpr(s); err == nil {
			t.Fatalf("cronExpr(%+v) accepted", s)
		}
	}
}

func TestRunnerOffModeAddsNothing(t *testing.T) {
	r := New(time.UTC)
	fired := false
	if err := r.Add(Spec{Mode: "off"}, func() { fired = true }); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	r.Stop()
	if fired {
		t.Fatalf("off schedule fired")
	}
}

func TestRunnerAddValidSpec(t *testing.T) {
	r := New(time.UTC)
	if err := r.Add(Spec{Mode: "daily", Time: "09:30"}, func() {}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	r.Stop()
}
