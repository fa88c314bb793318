package main

import (
	"github.com/coder/quartz"

	"github.com/lox/trucoforbots/cmd/trucoforbots/shared"
	"github.com/lox/trucoforbots/internal/server"
)

// ServerCmd runs the WebSocket server from an HCL configuration
type ServerCmd struct {
	Config string `kong:"default='trucoforbots.hcl',help='Path to HCL configuration file'"`
	Addr   string `kong:"help='Listen address, overrides the configuration'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLeveledLogger(cfg.Server.LogLevel)
	if c.Debug {
		logger = shared.SetupLogger(true)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	rooms := server.NewRoomManager(logger, quartz.NewReal())
	for _, roomCfg := range cfg.Rooms {
		room := rooms.CreateRoom(roomCfg)
		for _, npc := range cfg.GetNPCsForRoom(roomCfg.Name) {
			if err := room.AddNPC(npc.Name, npc.Strategy); err != nil {
				return err
			}
		}
	}

	s := server.NewServer(addr, logger, rooms)

	logger.Info("starting trucoforbots server",
		"addr", addr,
		"rooms", len(cfg.Rooms),
		"npcs", len(cfg.NPCs))

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	return s.Start()
}
