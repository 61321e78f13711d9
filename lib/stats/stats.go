package stats

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fosdem/eglrender/lib/utils"
)

type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// Stats records how long each step of one offscreen run took.
type Stats struct {
	Steps         []StepTiming  `json:"steps"`
	RenderCalls   int           `json:"render_calls"`
	RenderTime    time.Duration `json:"render_time"`
	ReadbackBytes int           `json:"readback_bytes"`

	watch utils.Stopwatch
}

func New() *Stats {
	s := &Stats{}
	s.watch.Start()
	return s
}

// Mark closes the current step and returns its duration.
func (s *Stats) Mark(step string) time.Duration {
	d := s.watch.Lap()
	s.Steps = append(s.Steps, StepTiming{Step: step, Duration: d})
	return d
}

func (s *Stats) Rendered(d time.Duration) {
	s.RenderCalls++
	s.RenderTime += d
}

func (s *Stats) AvgRender() time.Duration {
	if s.RenderCalls == 0 {
		return 0
	}
	return s.RenderTime / time.Duration(s.RenderCalls)
}

func (s *Stats) Total() time.Duration {
	return s.watch.Total()
}

func (s *Stats) String() string {
	var b strings.Builder
	for _, st := range s.Steps {
		b.WriteString(fmt.Sprintf("%s=%s ", st.Step, st.Duration))
	}
	b.WriteString(fmt.Sprintf("renders=%d avg=%s total=%s", s.RenderCalls, s.AvgRender(), s.Total()))
	return b.String()
}

func (s *Stats) LogValue() slog.Value {
	return slog.StringValue(s.String())
}
