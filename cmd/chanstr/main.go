package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chanstr/chanstr-tui/internal/client"
	"github.com/chanstr/chanstr-tui/internal/timeline"
	"github.com/chanstr/chanstr-tui/internal/tui"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "chanstr",
		Short:   "A channel-based nostr chat client for the terminal",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	actionsChan := make(chan client.UserAction, 10)
	eventsChan := make(chan client.DisplayEvent, 10)

	pool := timeline.NewPool(context.Background())

	app, err := client.New(actionsChan, eventsChan, pool)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	appUI := tui.New(actionsChan, eventsChan)

	go app.Run()

	return appUI.Run()
}
