package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/pkg/geospatial"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action   string   `json:"action"`  // "subscribe" | "unsubscribe"
	Channel  string   `json:"channel"` // "jobs" | "applications" | "payments" (default: jobs)
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	RadiusKm *float64 `json:"radius_km,omitempty"`
}

var channelSubjects = map[string]string{
	"jobs":         "quickcash.jobs.>",
	"applications": "quickcash.applications.>",
	"payments":     "quickcash.payments.>",
}

// jobFilter limits the jobs channel to postings around a point.
type jobFilter struct {
	center   domain.GeoPoint
	radiusKm float64
}

// filterFor returns nil when the message carries no position. A missing
// radius falls back to defaultKm.
func filterFor(m wsMessage, defaultKm float64) (*jobFilter, error) {
	if m.Lat == nil || m.Lon == nil {
		return nil, nil
	}
	radius := defaultKm
	if m.RadiusKm != nil {
		radius = *m.RadiusKm
	}
	if radius < 0 || radius > maxRadiusKm {
		return nil, fmt.Errorf("radius_km must be between 0 and %d", maxRadiusKm)
	}
	return &jobFilter{center: domain.GeoPoint{Lat: *m.Lat, Lon: *m.Lon}, radiusKm: radius}, nil
}

// accepts reports whether a job event should be relayed. Events that do not
// decode as a job and unlocated jobs are dropped once a filter is set.
func (f *jobFilter) accepts(data []byte) bool {
	if f == nil {
		return true
	}
	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return false
	}
	return len(geospatial.FilterWithinRadius([]domain.Job{job}, f.center, f.radiusKm)) == 1
}

// WebSocketHandler returns a handler that upgrades to WebSocket
// and relays marketplace NATS events to connected clients.
// Clients send JSON: {"action":"subscribe","channel":"jobs","lat":44.64,"lon":-63.59,"radius_km":10}
// Job events can be narrowed to a radius, radiusKm when the client sends
// none; other channels relay everything.
func WebSocketHandler(nc *nats.Conn, radiusKm float64) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if nc == nil {
			_ = c.WriteJSON(map[string]string{"error": "realtime feed unavailable"})
			return
		}

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // channel -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(channel string, filter *jobFilter) error {
			s, err := nc.Subscribe(channelSubjects[channel], func(msg *nats.Msg) {
				if !filter.accepts(msg.Data) {
					return
				}
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[channel] = s
			return nil
		}

		// New postings are the default feed.
		if err := subscribe("jobs", nil); err != nil {
			slog.Error("ws default subscribe", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read client messages for subscribe/unsubscribe
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			channel := m.Channel
			if channel == "" {
				channel = "jobs"
			}
			if _, ok := channelSubjects[channel]; !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				filter, err := filterFor(m, radiusKm)
				if err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				if filter != nil && channel != "jobs" {
					_ = writeJSON(map[string]string{"error": "location filter only applies to jobs"})
					continue
				}
				// Resubscribing replaces the previous filter.
				if s, exists := subs[channel]; exists {
					_ = s.Unsubscribe()
					delete(subs, channel)
				}
				if err := subscribe(channel, filter); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": channel})

			case "unsubscribe":
				if s, exists := subs[channel]; exists {
					_ = s.Unsubscribe()
					delete(subs, channel)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": channel})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + channel})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
