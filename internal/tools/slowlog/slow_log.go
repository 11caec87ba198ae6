package slowlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultThreshold is the duration above which a breakpoint is logged as a warning.
const DefaultThreshold = 250 * time.Millisecond

type Logger interface {
	Start(name string)
	Stop(name string) time.Duration
}

type slowLogger struct {
	log           *zerolog.Logger
	threshold     time.Duration
	now           func() time.Time
	ongoingTimers map[string]time.Time
	sync.Mutex
}

func (s *slowLogger) Start(name string) {
	s.Lock()
	s.ongoingTimers[name] = s.now()
	s.Unlock()
}

// Stop logs and returns the time since the matching Start. Restarting a name
// resets its timer.
func (s *slowLogger) Stop(name string) time.Duration {
	s.Lock()
	start, ok := s.ongoingTimers[name]
	delete(s.ongoingTimers, name)
	s.Unlock()

	if !ok {
		return 0
	}

	duration := s.now().Sub(start)

	event := s.log.Debug()
	if duration > s.threshold {
		event = s.log.Warn()
	}

	event.
		Float64("duration", duration.Seconds()).
		Str("breakpoint_name", name).
		Msg("")

	return duration
}

func CreateLogger(log *zerolog.Logger) *slowLogger {
	return CreateLoggerWithThreshold(log, DefaultThreshold)
}

func CreateLoggerWithThreshold(log *zerolog.Logger, threshold time.Duration) *slowLogger {
	logger := log.With().Str("label", "slowlog").Logger()
	return &slowLogger{
		log:           &logger,
		threshold:     threshold,
		now:           time.Now,
		ongoingTimers: make(map[string]time.Time),
	}
}
