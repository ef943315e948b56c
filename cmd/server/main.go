package main

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stopwatch-widget/internal/api"
	"stopwatch-widget/internal/stopwatch"
)

func main() {
	configureLogging()

	cfg := api.Config{
		Title:           strings.TrimSpace(os.Getenv("STOPWATCH_TITLE")),
		RefreshInterval: stopwatch.DefaultRefreshInterval,
	}
	if interval := strings.TrimSpace(os.Getenv("STOPWATCH_REFRESH_INTERVAL")); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			cfg.RefreshInterval = d
		} else {
			logrus.WithField("value", interval).Warn("ignoring invalid STOPWATCH_REFRESH_INTERVAL")
		}
	}
	if origins := strings.TrimSpace(os.Getenv("STOPWATCH_ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting stopwatch widget on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

func configureLogging() {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			logrus.WithError(err).Warn("ignoring invalid LOG_LEVEL")
			return
		}
		logrus.SetLevel(parsed)
	}
}
