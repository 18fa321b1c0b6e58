package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/temcen/teapick/internal/app"
	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/internal/config"
	"github.com/temcen/teapick/internal/services"
	"github.com/temcen/teapick/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The dialog owns the terminal, so logs go to a file only when DEBUG is set.
	logger := app.SetupLogger(&cfg.Logging)
	logger.SetOutput(io.Discard)
	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("picker.log", "picker")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	c, err := catalog.LoadOrDefault(cfg.Catalog.Path, logger)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	svc := services.NewRecommendationService(
		c,
		services.SelectorFromConfig(&cfg.Selector, logger),
		services.NewSelectionMetrics(prometheus.NewRegistry()),
		logger,
	)

	if _, err := tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
		os.Exit(1)
	}
}
