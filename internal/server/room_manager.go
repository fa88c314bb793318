package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// roomCodeAlphabet keeps room codes easy to read aloud
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RoomManager tracks the rooms a server is hosting. The first room
// registered becomes the default for clients that join without a code.
type RoomManager struct {
	logger        *log.Logger
	clock         quartz.Clock
	mu            sync.RWMutex
	rooms         map[string]*Room
	defaultRoomID string
}

// NewRoomManager constructs an empty room manager
func NewRoomManager(logger *log.Logger, clock quartz.Clock) *RoomManager {
	return &RoomManager{
		logger: logger.WithPrefix("rooms"),
		clock:  clock,
		rooms:  make(map[string]*Room),
	}
}

// CreateRoom creates and registers a room from a configuration
func (rm *RoomManager) CreateRoom(cfg RoomConfig) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	id := gonanoid.MustGenerate(roomCodeAlphabet, 6)
	room := NewRoom(id, cfg, rm.logger, rm.clock)
	rm.rooms[id] = room
	if rm.defaultRoomID == "" {
		rm.defaultRoomID = id
	}
	rm.logger.Info("room created", "room", id, "name", cfg.Name)
	return room
}

// GetRoom retrieves a room by ID
func (rm *RoomManager) GetRoom(id string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, ok := rm.rooms[id]
	return room, ok
}

// DefaultRoom returns the default room, if any
func (rm *RoomManager) DefaultRoom() (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, ok := rm.rooms[rm.defaultRoomID]
	return room, ok
}

// DeleteRoom removes a room by ID and returns it
func (rm *RoomManager) DeleteRoom(id string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[id]
	if !ok {
		return nil, false
	}

	delete(rm.rooms, id)
	if rm.defaultRoomID == id {
		rm.defaultRoomID = ""
		for newID := range rm.rooms {
			rm.defaultRoomID = newID
			break
		}
	}
	return room, true
}

// ListRooms returns a snapshot of the hosted rooms
func (rm *RoomManager) ListRooms() []RoomInfo {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		infos = append(infos, room.Info())
	}
	return infos
}

// ReapAbandoned deletes rooms with no connected players left and
// returns how many were removed.
func (rm *RoomManager) ReapAbandoned() int {
	rm.mu.RLock()
	var abandoned []string
	for id, room := range rm.rooms {
		if room.Abandoned() {
			abandoned = append(abandoned, id)
		}
	}
	rm.mu.RUnlock()

	for _, id := range abandoned {
		if _, ok := rm.DeleteRoom(id); ok {
			rm.logger.Info("reaped abandoned room", "room", id)
		}
	}
	return len(abandoned)
}
