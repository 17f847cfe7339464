package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/ubc-ctlt/kaltura-mcp/configs"
)

func main() {
	var (
		port         string
		settingsPath string
	)
	flag.StringVar(&port, "port", ":18070", "listen address")
	flag.StringVar(&settingsPath, "settings", "", "path to the host tool's JSON settings file (overrides env)")
	flag.Parse()

	cfg, err := configs.Load(settingsPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	kalturaService := NewKalturaService(cfg)

	appServer := NewAppServer(cfg, kalturaService)
	if err := appServer.Start(port); err != nil {
		logrus.Fatalf("failed to run server: %v", err)
	}
}
