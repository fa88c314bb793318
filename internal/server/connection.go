package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/trucoforbots/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	seatID    string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	rooms     *RoomManager
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, rooms *RoomManager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		rooms:  rooms,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSeat associates this connection with a seat in a room
func (c *Connection) SetSeat(roomID, seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.seatID = seatID
}

// GetSeat returns the associated seat ID
func (c *Connection) GetSeat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seatID
}

// GetRoom returns the associated room ID
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "seat", c.GetSeat())

	switch msg.Type {
	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeLeaveRoom:
		var data LeaveRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse leave room data")
			return
		}
		c.handleLeaveRoom(data)

	case MessageTypeListRooms:
		c.handleListRooms()

	case MessageTypeCommand:
		var data CommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse command data")
			return
		}
		c.handleCommand(data)

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	c.logger.Info("join room request", "room", data.RoomID, "player", data.PlayerName)

	if data.PlayerName == "" {
		c.sendError("invalid_join", "player name required")
		return
	}
	if c.GetSeat() != "" {
		c.sendError("already_seated", "already seated in a room")
		return
	}

	var room *Room
	var ok bool
	if data.RoomID == "" {
		room, ok = c.rooms.DefaultRoom()
	} else {
		room, ok = c.rooms.GetRoom(data.RoomID)
	}
	if !ok {
		c.sendError("room_not_found", "no such room")
		return
	}

	seatID, err := room.Join(data.PlayerName, c)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.SetSeat(room.ID(), seatID)
}

func (c *Connection) handleLeaveRoom(data LeaveRoomData) {
	c.logger.Info("leave room request", "room", data.RoomID, "seat", c.GetSeat())

	roomID := c.GetRoom()
	seatID := c.GetSeat()
	if roomID == "" || seatID == "" {
		c.sendError("not_seated", "not seated in a room")
		return
	}

	if room, ok := c.rooms.GetRoom(roomID); ok {
		room.Leave(seatID)
	}
	c.SetSeat("", "")
}

func (c *Connection) handleListRooms() {
	response, err := NewMessage(MessageTypeRoomList, RoomListData{
		Rooms: c.rooms.ListRooms(),
	})
	if err != nil {
		c.logger.Error("failed to create room list message", "error", err)
		return
	}
	_ = c.SendMessage(response)
}

func (c *Connection) handleCommand(data CommandData) {
	seatID := c.GetSeat()
	roomID := c.GetRoom()
	if seatID == "" || roomID == "" {
		c.sendError("not_seated", "join a room first")
		return
	}

	room, ok := c.rooms.GetRoom(roomID)
	if !ok {
		c.sendError("room_not_found", "room no longer exists")
		return
	}

	if err := room.HandleCommand(seatID, data); err != nil {
		c.sendError(rejectionCode(err), err.Error())
	}
}

// rejectionCode maps engine rejections to stable wire codes
func rejectionCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrUnknownCard):
		return "unknown_card"
	case errors.Is(err, game.ErrMatchFinished):
		return "match_finished"
	case errors.Is(err, game.ErrIllegalCommand):
		return "illegal_command"
	default:
		return "command_failed"
	}
}
