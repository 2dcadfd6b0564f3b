package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/victornm/livequiz/internal/config"
	"github.com/victornm/livequiz/internal/server"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("livequiz: %v", err)
	}

	srv, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("livequiz: init server: %v", err)
	}

	go srv.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)
	<-shutdown

	srv.Shutdown()
}

func loadConfig() (server.Config, error) {
	var cfg server.Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return cfg, fmt.Errorf("CONFIG_PATH must point to the config file")
	}

	if err := config.Load(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}
