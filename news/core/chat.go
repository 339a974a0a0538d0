package core

import (
	"context"
	"fmt"

	ports "github.com/longlodw/news/news/core/ports"
)

// DefaultWindowSize is the number of recent turns loaded as context for a
// generation call.
const DefaultWindowSize = 16

// ChatHandler assembles a bounded conversation window into a single model
// invocation and persists the exchange.
type ChatHandler struct {
	chats     ports.ConversationStore
	cache     ports.ContextCacheStore
	generator ports.Generator
	tracer    ports.Tracer
	window    int
}

// NewChatHandler creates a chat handler bound to an already-resolved
// partition's stores. A non-positive window falls back to
// DefaultWindowSize.
func NewChatHandler(
	chats ports.ConversationStore,
	cache ports.ContextCacheStore,
	generator ports.Generator,
	tracer ports.Tracer,
	window int,
) *ChatHandler {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &ChatHandler{
		chats:     chats,
		cache:     cache,
		generator: generator,
		tracer:    tracer,
		window:    window,
	}
}

// Post sends the user's text q against the recent conversation window and
// returns the model's reply.
//
// If generation fails, nothing is persisted. If generation succeeds but
// persisting either turn fails, the reply is still returned; the stored
// conversation is then behind what the caller saw. That risk is accepted
// rather than masked by discarding a paid-for reply.
func (h *ChatHandler) Post(ctx context.Context, q string) (string, error) {
	ctx, finish := h.tracer.StartSpan(ctx, "chat_post", map[string]any{
		"window": h.window,
	})
	var spanErr error
	defer func() { finish(spanErr) }()

	opts := ports.GenerateOptions{}
	// Layer the active news context onto generation when one exists. A
	// cache read failure degrades to uncached generation.
	if entries, err := h.cache.LoadMany(ctx, 1); err != nil {
		h.tracer.Event(ctx, "cache_read_failed", map[string]any{"error": err.Error()})
	} else if len(entries) > 0 {
		opts.CachedContext = entries[len(entries)-1].Value
	}

	turns, err := h.chats.LoadWindow(ctx, h.window)
	if err != nil {
		spanErr = fmt.Errorf("failed to load conversation window: %w", err)
		return "", spanErr
	}

	turns = append(turns, ports.Turn{Role: ports.RoleUser, Content: q})

	reply, err := h.generator.Generate(ctx, turns, opts)
	if err != nil {
		spanErr = fmt.Errorf("generation failed: %w", err)
		return "", spanErr
	}

	// User turn first, so the log never shows a reply without its prompt.
	if _, err := h.chats.Append(ctx, ports.RoleUser, q); err != nil {
		h.tracer.Event(ctx, "persist_failed", map[string]any{"role": "user", "error": err.Error()})
		return reply, nil
	}
	if _, err := h.chats.Append(ctx, ports.RoleModel, reply); err != nil {
		h.tracer.Event(ctx, "persist_failed", map[string]any{"role": "model", "error": err.Error()})
	}

	return reply, nil
}
