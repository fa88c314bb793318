package server

import (
	"encoding/json"
	"time"

	"github.com/lox/trucoforbots/internal/game"
)

// MessageType identifies a WebSocket message
type MessageType string

const (
	// Client → Server
	MessageTypeJoinRoom  MessageType = "join_room"
	MessageTypeLeaveRoom MessageType = "leave_room"
	MessageTypeListRooms MessageType = "list_rooms"
	MessageTypeCommand   MessageType = "command"

	// Server → Client
	MessageTypeJoined         MessageType = "joined"
	MessageTypeRoomList       MessageType = "room_list"
	MessageTypeState          MessageType = "state"
	MessageTypeActionRequired MessageType = "action_required"
	MessageTypeMatchEnd       MessageType = "match_end"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinRoomData struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// CommandData carries one game command. Card is the compact card code
// (e.g. "7e") and only meaningful for play_card.
type CommandData struct {
	RoomID string `json:"roomId"`
	Action string `json:"action"`
	Card   string `json:"card,omitempty"`
}

// Server → Client Messages

type JoinedData struct {
	RoomID    string `json:"roomId"`
	SeatID    string `json:"seatId"`
	SeatIndex int    `json:"seatIndex"`
	Team      string `json:"team"`
}

type RoomInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Players     int    `json:"players"`
	Capacity    int    `json:"capacity"`
	TargetScore int    `json:"targetScore"`
	FlorEnabled bool   `json:"florEnabled"`
	Status      string `json:"status"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

// StateData is the per-seat view after every transition: the redacted
// snapshot plus the narration lines for what just happened.
type StateData struct {
	RoomID string         `json:"roomId"`
	View   *game.Snapshot `json:"view"`
	Lines  []string       `json:"lines,omitempty"`
}

// ActionRequiredData prompts a seat for its next command
type ActionRequiredData struct {
	RoomID         string   `json:"roomId"`
	SeatID         string   `json:"seatId"`
	Actions        []string `json:"actions"`
	Cards          []string `json:"cards,omitempty"`
	TimeoutSeconds int      `json:"timeoutSeconds,omitempty"`
}

type MatchEndData struct {
	RoomID string `json:"roomId"`
	Winner string `json:"winner"`
	ScoreA int    `json:"scoreA"`
	ScoreB int    `json:"scoreB"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// actionNames converts legal actions to their wire names
func actionNames(actions []game.Action) []string {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.String())
	}
	return names
}
