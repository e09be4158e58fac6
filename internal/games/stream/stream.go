// Package stream provides Server-Sent Events delivery of cover patches.
// A search batch renders immediately; as each cover resolves, connected
// clients for that device receive a patch event and update the matching
// index in place.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"retrocodex_backend/internal/games/transport"
	"retrocodex_backend/platform/logger"
)

// EventType identifies the kind of SSE event.
type EventType string

const (
	// EventCoverPatch carries a resolved cover for one batch index.
	EventCoverPatch EventType = "cover_patch"
)

// client is one connected SSE subscriber.
type client struct {
	deviceID string
	events   chan transport.CoverPatch
}

// Service manages SSE connections keyed by device ID.
type Service struct {
	mu      sync.RWMutex
	clients map[string][]*client
	log     *logger.Logger
}

// New creates an SSE service.
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[string][]*client),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.deviceID] = append(s.clients[c.deviceID], c)
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.deviceID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.deviceID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(s.clients[c.deviceID]) == 0 {
		delete(s.clients, c.deviceID)
	}

	close(c.events)
}

// PublishCoverPatch sends a cover patch to every connection of the device.
// Slow consumers drop patches rather than blocking enrichment; the
// snapshot endpoint remains the catch-up path.
func (s *Service) PublishCoverPatch(deviceID string, patch transport.CoverPatch) {
	// Sends stay under the read lock: channels are only closed under the
	// write lock, so a send can never hit a closed channel.
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients[deviceID] {
		select {
		case c.events <- patch:
		default:
			s.log.Warn("sse buffer full, dropping cover patch", "device_id", deviceID)
		}
	}
}

// SubscriberCount returns the number of open connections for a device.
func (s *Service) SubscriberCount(deviceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[deviceID])
}

// Handler returns a Gin handler for SSE connections.
func (s *Service) Handler(getDeviceID func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := getDeviceID(c)
		if deviceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "device ID is required"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			deviceID: deviceID,
			events:   make(chan transport.CoverPatch, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"deviceId": deviceID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case patch, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(patch)
				c.SSEvent(string(EventCoverPatch), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down all connections.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[string][]*client)
}
