package main

import (
	_ "echoboard/docs"
	"echoboard/internal/config"
	"echoboard/internal/server"
	"echoboard/pkg/logger"
)

// @title           EchoBoard API
// @version         1.0
// @description     Projects, members and tasks for small teams.

// @host      localhost:3001
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	s, err := server.Init(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Server initialization failed")
	}

	s.Run()
}
