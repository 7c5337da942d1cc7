package health

import "time"

// Service encapsulates health-related checks.
type Service struct {
	started time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{started: time.Now()}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":             true,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	}
}
