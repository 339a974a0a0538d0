package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc"

	ports "github.com/longlodw/news/news/core/ports"
)

// NewsHandler infers a tenant's interests from recent conversation, fetches
// matching articles, uploads them to the backend, and materializes a
// reusable context handle over the successful uploads.
type NewsHandler struct {
	fetcher         ports.NewsFetcher
	chats           ports.ConversationStore
	cache           ports.ContextCacheStore
	generator       ports.Generator
	tracer          ports.Tracer
	defaultInterest string
	window          int
}

// NewNewsHandler creates a news pipeline bound to an already-resolved
// partition's stores. Empty defaultInterest falls back to "finance", a
// non-positive window to DefaultWindowSize.
func NewNewsHandler(
	fetcher ports.NewsFetcher,
	chats ports.ConversationStore,
	cache ports.ContextCacheStore,
	generator ports.Generator,
	tracer ports.Tracer,
	defaultInterest string,
	window int,
) *NewsHandler {
	if defaultInterest == "" {
		defaultInterest = "finance"
	}
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &NewsHandler{
		fetcher:         fetcher,
		chats:           chats,
		cache:           cache,
		generator:       generator,
		tracer:          tracer,
		defaultInterest: defaultInterest,
		window:          window,
	}
}

// Post runs the pipeline once and returns the number of articles that made
// it into the materialized context.
//
// Zero fetched articles is a benign outcome: the pipeline reports 0 and
// leaves the cache untouched. Individual upload failures are dropped and
// logged without failing the run; only when every upload fails is context
// materialization skipped, still reporting 0 without error.
func (h *NewsHandler) Post(ctx context.Context) (int, error) {
	ctx, finish := h.tracer.StartSpan(ctx, "news_post", nil)
	var spanErr error
	defer func() { finish(spanErr) }()

	interests, err := h.inferInterests(ctx)
	if err != nil {
		spanErr = err
		return 0, err
	}
	h.tracer.Event(ctx, "interests_inferred", map[string]any{"interests": interests})

	articles, err := h.fetcher.Fetch(ctx, interests)
	if err != nil {
		spanErr = fmt.Errorf("failed to fetch news: %w", err)
		return 0, spanErr
	}
	if len(articles) == 0 {
		h.tracer.Event(ctx, "no_articles", map[string]any{"interests": interests})
		return 0, nil
	}

	uploaded := h.uploadAll(ctx, articles)
	if len(uploaded) == 0 {
		h.tracer.Event(ctx, "no_uploads", map[string]any{"fetched": len(articles)})
		return 0, nil
	}

	handle, err := h.generator.MaterializeContext(ctx, uploaded, newsSystemInstruction)
	if err != nil {
		spanErr = fmt.Errorf("failed to materialize context: %w", err)
		return 0, spanErr
	}

	// The handle doubles as key and value: the most-recent cache lookup
	// must return it.
	if err := h.cache.Store(ctx, handle, handle); err != nil {
		spanErr = fmt.Errorf("failed to record context handle: %w", err)
		return 0, spanErr
	}

	return len(uploaded), nil
}

// inferInterests derives a one-phrase interest from the recent window, or
// returns the default interest when the history is empty. A failed
// inference call is an upstream failure and propagates.
func (h *NewsHandler) inferInterests(ctx context.Context) (string, error) {
	turns, err := h.chats.LoadWindow(ctx, h.window)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation window: %w", err)
	}
	if len(turns) == 0 {
		return h.defaultInterest, nil
	}

	turns = append(turns, ports.Turn{Role: ports.RoleUser, Content: interestPrompt})
	reply, err := h.generator.Generate(ctx, turns, ports.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to infer interests: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(reply)), nil
}

// uploadAll uploads every article concurrently and returns the successful
// references in article order. The join barrier waits for all uploads to
// settle; per-article failures are logged and dropped, never retried.
func (h *NewsHandler) uploadAll(ctx context.Context, articles []ports.Article) []ports.FileRef {
	refs := make([]ports.FileRef, len(articles))
	errs := make([]error, len(articles))

	var wg conc.WaitGroup
	for i, article := range articles {
		wg.Go(func() {
			payload, err := json.Marshal(article)
			if err != nil {
				errs[i] = fmt.Errorf("failed to encode article %s: %w", article.ID, err)
				return
			}
			ref, err := h.generator.UploadFile(ctx, payload, "text/plain")
			if err != nil {
				errs[i] = fmt.Errorf("failed to upload article %s: %w", article.ID, err)
				return
			}
			refs[i] = ref
		})
	}
	wg.Wait()

	uploaded := make([]ports.FileRef, 0, len(articles))
	for i := range articles {
		if errs[i] != nil {
			h.tracer.Event(ctx, "article_upload_failed", map[string]any{
				"article_id": articles[i].ID,
				"error":      errs[i].Error(),
			})
			continue
		}
		uploaded = append(uploaded, refs[i])
	}
	return uploaded
}
