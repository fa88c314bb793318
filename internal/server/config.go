package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig   `hcl:"room,block"`
	NPCs   []NPCConfig    `hcl:"npc,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomConfig defines a truco room configuration
type RoomConfig struct {
	Name           string `hcl:"name,label"`
	Players        int    `hcl:"players,optional"`
	TargetScore    int    `hcl:"target_score,optional"`
	FlorEnabled    bool   `hcl:"flor,optional"`
	ChantTimeoutMs int    `hcl:"chant_timeout_ms,optional"`
	Seed           int64  `hcl:"seed,optional"`
}

// ChantTimeout returns the time a seat has to answer a chant before it
// is treated as declined. Zero disables the timeout.
func (r RoomConfig) ChantTimeout() time.Duration {
	return time.Duration(r.ChantTimeoutMs) * time.Millisecond
}

// NPCConfig defines built-in opponents seated into rooms at startup
type NPCConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Rooms    []string `hcl:"rooms,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Rooms: []RoomConfig{
			{
				Name:           "main",
				Players:        2,
				TargetScore:    30,
				ChantTimeoutMs: 30000,
			},
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	for i := range config.Rooms {
		if config.Rooms[i].Players == 0 {
			config.Rooms[i].Players = 2
		}
		if config.Rooms[i].TargetScore == 0 {
			config.Rooms[i].TargetScore = 30
		}
		if config.Rooms[i].ChantTimeoutMs == 0 {
			config.Rooms[i].ChantTimeoutMs = 30000
		}
	}

	for i := range config.NPCs {
		if config.NPCs[i].Strategy == "" {
			config.NPCs[i].Strategy = "random"
		}
		if len(config.NPCs[i].Rooms) == 0 {
			for _, room := range config.Rooms {
				config.NPCs[i].Rooms = append(config.NPCs[i].Rooms, room.Name)
			}
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Rooms) == 0 {
		return fmt.Errorf("at least one room must be configured")
	}

	for _, room := range c.Rooms {
		if room.Players != 2 && room.Players != 4 && room.Players != 6 {
			return fmt.Errorf("room %s: players must be 2, 4 or 6", room.Name)
		}
		if room.TargetScore < 1 {
			return fmt.Errorf("room %s: target score must be positive", room.Name)
		}
		if room.ChantTimeoutMs < 0 {
			return fmt.Errorf("room %s: chant timeout must not be negative", room.Name)
		}
	}

	validStrategies := map[string]bool{
		"random":     true,
		"calling":    true,
		"cautious":   true,
		"aggressive": true,
	}

	for _, npc := range c.NPCs {
		if !validStrategies[npc.Strategy] {
			return fmt.Errorf("npc %s: invalid strategy %s", npc.Name, npc.Strategy)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetRoomByName returns a room configuration by name
func (c *ServerConfig) GetRoomByName(name string) *RoomConfig {
	for _, room := range c.Rooms {
		if room.Name == name {
			return &room
		}
	}
	return nil
}

// GetNPCsForRoom returns all NPCs configured for a specific room
func (c *ServerConfig) GetNPCsForRoom(roomName string) []NPCConfig {
	var npcs []NPCConfig
	for _, npc := range c.NPCs {
		for _, room := range npc.Rooms {
			if room == roomName {
				npcs = append(npcs, npc)
				break
			}
		}
	}
	return npcs
}
