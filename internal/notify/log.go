package notify

import (
	"log"
	"sync"
)

// LogSurface writes notifications to the process log. It stands in for a real
// presentation surface in headless runs.
type LogSurface struct {
	// Allowed gates posting; nil means permission is granted.
	Allowed func() bool

	mu       sync.Mutex
	channels map[string]string
}

func NewLogSurface() *LogSurface {
	return &LogSurface{channels: make(map[string]string)}
}

func (s *LogSurface) EnsureChannel(id, name, description string, importance Importance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; ok {
		return nil
	}
	s.channels[id] = name
	log.Printf("[NOTIFY] Channel %s (%s) registered", id, name)
	return nil
}

func (s *LogSurface) Post(n Notification) error {
	if s.Allowed != nil && !s.Allowed() {
		return nil
	}
	log.Printf("[NOTIFY] #%d %s: %s (%s)", n.ID, n.Title, n.Body, n.ChannelID)
	return nil
}
