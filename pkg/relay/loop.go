package relay

import (
	"context"
	"sync"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/catalog"
	"github.com/superstream-live/streamrelay/pkg/logger"
	"github.com/superstream-live/streamrelay/pkg/messages"
)

// Loop consumes inbound events from the bus and relays them downstream.
// Each event is handled by its own goroutine, so slow media archival never
// holds up text traffic; cross-event ordering is intentionally unspecified.
type Loop struct {
	bus        *bus.EventBus
	normalizer *messages.Normalizer
	catalog    *catalog.Catalog
	pub        Publisher
	wg         sync.WaitGroup
}

func NewLoop(eventBus *bus.EventBus, normalizer *messages.Normalizer, cat *catalog.Catalog, pub Publisher) *Loop {
	return &Loop{
		bus:        eventBus,
		normalizer: normalizer,
		catalog:    cat,
		pub:        pub,
	}
}

// Run blocks until ctx is canceled or the bus closes. In-flight handlers
// are left to finish; Wait drains them.
func (l *Loop) Run(ctx context.Context) {
	for {
		ev, ok := l.bus.ConsumeInbound(ctx)
		if !ok {
			return
		}

		l.wg.Add(1)
		go func(ev bus.InboundEvent) {
			defer l.wg.Done()
			defer func() {
				// Catch-all: a bad event must not take the relay down.
				if r := recover(); r != nil {
					logger.ErrorCF("relay", "Handler panic recovered", map[string]any{
						"channel": ev.Channel,
						"kind":    string(ev.Kind),
						"panic":   r,
					})
				}
			}()
			l.handle(ctx, ev)
		}(ev)
	}
}

// Wait blocks until all in-flight event handlers have finished.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func (l *Loop) handle(ctx context.Context, ev bus.InboundEvent) {
	if ev.Kind == bus.EventReactionChosen {
		l.handleReaction(ev)
		return
	}

	msg, ok := l.normalizer.Normalize(ctx, ev)
	if !ok {
		logger.DebugCF("relay", "Skipping unsupported event kind", map[string]any{
			"channel": ev.Channel,
			"kind":    string(ev.Kind),
		})
		return
	}

	l.pub.Publish(EventNameMessage, msg)
}

// handleReaction relays a redeemed catalog entry. The chosen-result callback
// carries the full platform user, so the author goes through the identity
// store like any other event; the entry is recovered from the catalog by
// the slug echoed back as the result ID.
func (l *Loop) handleReaction(ev bus.InboundEvent) {
	entry, ok := l.catalog.BySlug(ev.ResultID)
	if !ok {
		// Slug from a stale results list; keep the slug, placeholder the rest.
		entry = catalog.Entry{Title: "None", Keywords: "None", Slug: ev.ResultID, By: "None"}
	}

	reaction := messages.ReactionEvent{
		ID:      ev.Author.ID,
		Content: entry,
		Author:  l.normalizer.AuthorView(ev.Author),
	}

	l.pub.Publish(EventNameReaction, reaction)
}
