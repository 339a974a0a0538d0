package core

import (
	"context"
	"fmt"
	"sync"

	ports "github.com/longlodw/news/news/core/ports"
)

// stubConversationStore implements ConversationStore in memory for testing.
type stubConversationStore struct {
	mu        sync.Mutex
	turns     []ports.Turn
	nextID    int64
	appendErr error
}

func (s *stubConversationStore) Append(ctx context.Context, role ports.Role, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		return 0, s.appendErr
	}
	s.nextID++
	s.turns = append(s.turns, ports.Turn{ID: s.nextID, Role: role, Content: content})
	return s.nextID, nil
}

func (s *stubConversationStore) LoadWindow(ctx context.Context, limit int) ([]ports.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if len(s.turns) > limit {
		start = len(s.turns) - limit
	}
	window := make([]ports.Turn, len(s.turns)-start)
	copy(window, s.turns[start:])
	return window, nil
}

// stubGenerator implements Generator for testing. The default Generate
// echoes the last user turn's content.
type stubGenerator struct {
	mu sync.Mutex

	generateFunc    func(ctx context.Context, turns []ports.Turn, opts ports.GenerateOptions) (string, error)
	uploadFunc      func(ctx context.Context, data []byte, mimeType string) (ports.FileRef, error)
	materializeFunc func(ctx context.Context, refs []ports.FileRef, systemInstruction string) (string, error)

	generateCalls    int
	uploadCalls      int
	materializeCalls int
	lastTurns        []ports.Turn
	lastOpts         ports.GenerateOptions
	lastRefs         []ports.FileRef
	lastInstruction  string
}

func (g *stubGenerator) Generate(ctx context.Context, turns []ports.Turn, opts ports.GenerateOptions) (string, error) {
	g.mu.Lock()
	g.generateCalls++
	g.lastTurns = turns
	g.lastOpts = opts
	g.mu.Unlock()

	if g.generateFunc != nil {
		return g.generateFunc(ctx, turns, opts)
	}
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == ports.RoleUser {
			return "ECHO:" + turns[i].Content, nil
		}
	}
	return "ECHO:", nil
}

func (g *stubGenerator) UploadFile(ctx context.Context, data []byte, mimeType string) (ports.FileRef, error) {
	g.mu.Lock()
	g.uploadCalls++
	n := g.uploadCalls
	g.mu.Unlock()

	if g.uploadFunc != nil {
		return g.uploadFunc(ctx, data, mimeType)
	}
	return ports.FileRef{URI: fmt.Sprintf("files/%d", n), MIMEType: mimeType}, nil
}

func (g *stubGenerator) MaterializeContext(ctx context.Context, refs []ports.FileRef, systemInstruction string) (string, error) {
	g.mu.Lock()
	g.materializeCalls++
	g.lastRefs = refs
	g.lastInstruction = systemInstruction
	g.mu.Unlock()

	if g.materializeFunc != nil {
		return g.materializeFunc(ctx, refs, systemInstruction)
	}
	return "cachedContents/stub", nil
}

// stubFetcher implements NewsFetcher for testing.
type stubFetcher struct {
	articles  []ports.Article
	err       error
	lastQuery string
	calls     int
}

func (f *stubFetcher) Fetch(ctx context.Context, query string) ([]ports.Article, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

// stubCredentialStore implements CredentialStore in memory for testing.
type stubCredentialStore struct {
	mu       sync.Mutex
	creds    map[string]ports.Credential
	storeErr error
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{creds: make(map[string]ports.Credential)}
}

func (s *stubCredentialStore) Store(ctx context.Context, cred ports.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storeErr != nil {
		return s.storeErr
	}
	s.creds[cred.Token] = cred
	return nil
}

func (s *stubCredentialStore) Resolve(ctx context.Context, token string) (ports.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[token]
	if !ok {
		return ports.Credential{}, ports.ErrNotFound
	}
	return cred, nil
}

func (s *stubCredentialStore) ListMany(ctx context.Context, limit int) ([]ports.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := make([]ports.Credential, 0, limit)
	for _, cred := range s.creds {
		if len(creds) == limit {
			break
		}
		creds = append(creds, cred)
	}
	return creds, nil
}
