package rss

import "time"

// SetNow replaces the clock of the source
func (s *Source) SetNow(now func() time.Time) { s.now = now }
