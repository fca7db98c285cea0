package catalog

import "time"

// SetClock lets external tests replace the service clock.
func SetClock(s *Service, now func() time.Time) { s.now = now }
