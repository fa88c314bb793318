package server

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *RoomManager {
	return NewRoomManager(testLogger(), quartz.NewReal())
}

func TestRoomManagerCreateAndGet(t *testing.T) {
	rm := newTestManager()

	room := rm.CreateRoom(RoomConfig{Name: "casa", Players: 2, TargetScore: 30})
	require.NotNil(t, room)
	assert.Len(t, room.ID(), 6)

	got, ok := rm.GetRoom(room.ID())
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = rm.GetRoom("NOPE99")
	assert.False(t, ok)
}

func TestRoomManagerDefaultRoom(t *testing.T) {
	rm := newTestManager()

	_, ok := rm.DefaultRoom()
	assert.False(t, ok)

	first := rm.CreateRoom(RoomConfig{Name: "first", Players: 2, TargetScore: 30})
	rm.CreateRoom(RoomConfig{Name: "second", Players: 2, TargetScore: 30})

	def, ok := rm.DefaultRoom()
	require.True(t, ok)
	assert.Same(t, first, def)

	// Deleting the default promotes another room
	_, ok = rm.DeleteRoom(first.ID())
	require.True(t, ok)
	def, ok = rm.DefaultRoom()
	require.True(t, ok)
	assert.NotSame(t, first, def)
}

func TestRoomManagerListRooms(t *testing.T) {
	rm := newTestManager()
	rm.CreateRoom(RoomConfig{Name: "casa", Players: 2, TargetScore: 15, FlorEnabled: true})

	infos := rm.ListRooms()
	require.Len(t, infos, 1)
	assert.Equal(t, "casa", infos[0].Name)
	assert.Equal(t, "waiting", infos[0].Status)
	assert.Equal(t, 15, infos[0].TargetScore)
	assert.True(t, infos[0].FlorEnabled)
}

func TestRoomManagerReapAbandoned(t *testing.T) {
	rm := newTestManager()

	fresh := rm.CreateRoom(RoomConfig{Name: "fresh", Players: 2, TargetScore: 30})
	dead := rm.CreateRoom(RoomConfig{Name: "dead", Players: 2, TargetScore: 30, Seed: 3})

	seatA, err := dead.Join("ana", &fakeSender{})
	require.NoError(t, err)
	seatB, err := dead.Join("bruno", &fakeSender{})
	require.NoError(t, err)
	dead.Leave(seatA)
	dead.Leave(seatB)

	assert.Equal(t, 1, rm.ReapAbandoned())
	_, ok := rm.GetRoom(dead.ID())
	assert.False(t, ok)
	_, ok = rm.GetRoom(fresh.ID())
	assert.True(t, ok, "never-used rooms are kept")
}
