package stats

import (
	"strings"
	"testing"
	"time"
)

func TestMarkAndRender(t *testing.T) {
	s := New()
	time.Sleep(time.Millisecond)
	if d := s.Mark("acquire"); d < time.Millisecond {
		t.Errorf("step too short: %s", d)
	}
	s.Mark("configure")

	s.Rendered(4 * time.Millisecond)
	s.Rendered(2 * time.Millisecond)

	if s.AvgRender() != 3*time.Millisecond {
		t.Errorf("avg %s", s.AvgRender())
	}
	if len(s.Steps) != 2 || s.Steps[1].Step != "configure" {
		t.Errorf("steps %+v", s.Steps)
	}

	var sum time.Duration
	for _, st := range s.Steps {
		sum += st.Duration
	}
	if s.Total() != sum {
		t.Errorf("total %s != sum of steps %s", s.Total(), sum)
	}

	if !strings.Contains(s.String(), "renders=2") {
		t.Errorf("got %q", s.String())
	}
}

func TestAvgRenderEmpty(t *testing.T) {
	if New().AvgRender() != 0 {
		t.Errorf("expected zero average")
	}
}
