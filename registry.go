package main

import (
	"crypto/rand"
	"crypto/subtle"
	"sync"
	"time"
)

const roomIDLength = 12

// randomRoomID generates a crypto-random room ID. IDs double as the join
// capability, so they need to be long enough to resist guessing.
func randomRoomID(n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, letters[int(b)%len(letters)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}

	return string(out)
}

// RoomManager holds the set of hubs keyed by room ID. Rooms come into
// existence only through host authentication, and are torn down by the
// expiry sweep.
type RoomManager struct {
	mu    sync.Mutex
	cfg   *Config
	bank  []Question
	rooms map[string]*Hub
}

func newRoomManager(cfg *Config, bank []Question) *RoomManager {
	rm := &RoomManager{
		cfg:   cfg,
		bank:  bank,
		rooms: make(map[string]*Hub),
	}
	if cfg.roomTTL > 0 && cfg.sweepInterval > 0 {
		go rm.reaperLoop()
	}
	return rm
}

// Authenticate validates the shared admin secret. On success it reuses the
// newest still-fresh, unfinished room, or creates a new one.
func (rm *RoomManager) Authenticate(secret string) (*Hub, error) {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(rm.cfg.adminSecret)) != 1 {
		return nil, errBadSecret
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	now := time.Now()

	var newest *Hub
	var newestCreated time.Time
	for _, hub := range rm.rooms {
		hub.mu.RLock()
		created := hub.createdAt
		state := hub.state
		hub.mu.RUnlock()

		if state == stateFinished {
			continue
		}
		if rm.cfg.roomTTL > 0 && now.Sub(created) > rm.cfg.roomTTL {
			continue
		}
		if newest == nil || created.After(newestCreated) {
			newest = hub
			newestCreated = created
		}
	}
	if newest != nil {
		return newest, nil
	}

	id := rm.newRoomIDLocked()
	hub := newHub(rm.cfg, id, rm.bank)
	rm.rooms[id] = hub
	go hub.run()

	metricRoomsCreated.Inc()
	logf(rm.cfg, "ROOMS: Created room %s", id)

	return hub, nil
}

func (rm *RoomManager) Lookup(roomID string) (*Hub, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	hub, ok := rm.rooms[roomID]
	return hub, ok
}

// newRoomIDLocked generates an ID and ensures it doesn't collide with
// existing rooms. Assumes rm.mu is held.
func (rm *RoomManager) newRoomIDLocked() string {
	for {
		id := randomRoomID(roomIDLength)
		if _, exists := rm.rooms[id]; !exists {
			return id
		}
	}
}

// Counts reports the live room and connection totals for the health check
// and metrics gauges.
func (rm *RoomManager) Counts() (rooms, clients int) {
	rm.mu.Lock()
	hubs := make([]*Hub, 0, len(rm.rooms))
	for _, hub := range rm.rooms {
		hubs = append(hubs, hub)
	}
	rm.mu.Unlock()

	for _, hub := range hubs {
		clients += hub.clientCount()
	}
	return len(hubs), clients
}

// sweepExpired removes rooms whose age exceeds the configured TTL, and
// reports how many were removed.
func (rm *RoomManager) sweepExpired(now time.Time) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	removed := 0
	for id, hub := range rm.rooms {
		hub.mu.RLock()
		created := hub.createdAt
		hub.mu.RUnlock()

		if now.Sub(created) > rm.cfg.roomTTL {
			delete(rm.rooms, id)
			go hub.closeAll()
			removed++
		}
	}
	return removed
}

func (rm *RoomManager) reaperLoop() {
	ticker := time.NewTicker(rm.cfg.sweepInterval)
	for range ticker.C {
		if removed := rm.sweepExpired(time.Now()); removed > 0 {
			logf(rm.cfg, "ROOMS: Swept %d expired room(s)", removed)
		}
	}
}
