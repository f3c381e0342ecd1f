package sensor

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

// ConnectLogger registers loggers for sensor output. Nil loggers are skipped.
func (s *Sensor) ConnectLogger(loggers ...types.Logger) {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// ConnectMeter registers meters that the built-in hooks feed.
func (s *Sensor) ConnectMeter(meters ...types.Meter) {
	s.metersLock.Lock()
	defer s.metersLock.Unlock()
	for _, m := range meters {
		if m != nil {
			s.meters = append(s.meters, m)
		}
	}
}
