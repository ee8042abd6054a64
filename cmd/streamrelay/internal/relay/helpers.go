package relay

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal"
	"github.com/superstream-live/streamrelay/pkg/archive"
	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/catalog"
	"github.com/superstream-live/streamrelay/pkg/channels"
	"github.com/superstream-live/streamrelay/pkg/identity"
	"github.com/superstream-live/streamrelay/pkg/inline"
	"github.com/superstream-live/streamrelay/pkg/logger"
	"github.com/superstream-live/streamrelay/pkg/messages"
	"github.com/superstream-live/streamrelay/pkg/relay"
)

func relayCmd(debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("🔍 Debug mode enabled")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}
	fmt.Printf("✓ Reaction catalog loaded (%d entries)\n", cat.Len())

	var archiver archive.Archiver
	if cloudinaryArchiver, err := archive.NewCloudinaryArchiver(cfg.Cloudinary); err != nil {
		archiver = archive.Disabled{}
		fmt.Printf("⚠ Media archival disabled: %v\n", err)
	} else {
		archiver = cloudinaryArchiver
		fmt.Println("✓ Cloudinary media archival enabled")
	}

	store := identity.NewStore()
	normalizer := messages.NewNormalizer(store, archiver)
	eventBus := bus.NewEventBus()
	responder := inline.NewResponder(cat)

	emitter := relay.NewEmitter(cfg.Relay)
	defer emitter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A dead stream at startup is not fatal: the relay keeps consuming chat
	// events and drops them until a later reconnect succeeds.
	if err := emitter.Connect(ctx); err != nil {
		fmt.Printf("⚠ Stream connection failed: %v (events will be dropped)\n", err)
	} else {
		fmt.Printf("✓ Connected to stream at %s\n", cfg.Relay.Endpoint)
	}

	channelManager, err := channels.NewManager(cfg, eventBus, responder)
	if err != nil {
		return fmt.Errorf("error creating channel manager: %w", err)
	}

	loop := relay.NewLoop(eventBus, normalizer, cat, emitter)
	go loop.Run(ctx)

	if err := channelManager.StartAll(ctx); err != nil {
		fmt.Printf("Error starting channels: %v\n", err)
	}

	enabled := channelManager.EnabledChannels()
	if len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %v\n", enabled)
	} else {
		fmt.Println("⚠ Warning: No channels enabled")
	}
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down...")
	channelManager.StopAll(ctx)
	eventBus.Close()
	cancel()
	loop.Wait()
	fmt.Println("✓ Relay stopped")

	return nil
}
