package handlers

import (
	"context"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Refresher triggers an out-of-schedule telemetry poll.
type Refresher interface {
	RefreshNow(ctx context.Context) error
}

// StatusHandler exposes the tracker's fuel state.
// Refresher is nil when telemetry polling is disabled.
type StatusHandler struct {
	Tracker   *services.FuelTracker
	Refresher Refresher
}

func toStatusResponse(s services.FuelStatus) dto.FuelStatusResponse {
	return dto.FuelStatusResponse{
		FuelLevel:   s.FuelLevel,
		Distance:    s.Distance,
		Connected:   s.Connected,
		LastUpdate:  s.LastUpdate,
		NextRefresh: s.NextRefresh,
		Error:       s.LastError,
	}
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, toStatusResponse(h.Tracker.Snapshot()))
}

// Refresh is the manual "refresh now" action. The poll result is reported
// in the returned status even when the device could not be reached.
func (h *StatusHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if h.Refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "telemetry polling is not configured")
		return
	}

	if err := h.Refresher.RefreshNow(r.Context()); err != nil {
		writeServiceError(w, r, "refresh fuel level", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStatusResponse(h.Tracker.Snapshot()))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// Stream pushes the current status and every subsequent change over a websocket.
func (h *StatusHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.Tracker.Subscribe(8)
	defer cancel()

	// The reader only services control frames and detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(s services.FuelStatus) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(toStatusResponse(s)) == nil
	}

	if !send(h.Tracker.Snapshot()) {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case s, ok := <-updates:
			if !ok || !send(s) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
