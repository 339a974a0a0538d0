package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	internal "github.com/longlodw/news/news"
	"github.com/longlodw/news/news/config"
	"github.com/longlodw/news/news/core/adapters"
	ports "github.com/longlodw/news/news/core/ports"
	"github.com/longlodw/news/news/db"
)

// ErrUnknownCredential is returned when a bearer token does not resolve to
// any partition. An authorization failure, not a crash.
var ErrUnknownCredential = errors.New("unknown credential")

// Partition bundles the stores backing one resolved tenant partition.
type Partition struct {
	Chats ports.ConversationStore
	Cache ports.ContextCacheStore
}

// Service wires configuration, the global credential store, and the
// collaborator adapters into per-tenant handlers. Handlers are constructed
// against an already-resolved partition, never discovered via ambient
// state.
type Service struct {
	cfg        *config.Config
	credDB     *sql.DB
	creds      ports.CredentialStore
	partitions *db.PartitionManager
	generator  ports.Generator
	fetcher    ports.NewsFetcher
	tracer     ports.Tracer
	logger     zerolog.Logger
}

// NewService opens the global credential database and prepares the
// partition manager. The generator and fetcher collaborators are injected;
// the service owns everything storage-side.
func NewService(
	ctx context.Context,
	cfg *config.Config,
	generator ports.Generator,
	fetcher ports.NewsFetcher,
	logger zerolog.Logger,
) (*Service, error) {
	credDB, err := db.Connect(filepath.Join(cfg.Storage.DataDir, internal.DefaultCredentialDB))
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}
	if err := db.MigrateCredentials(ctx, credDB); err != nil {
		credDB.Close()
		return nil, fmt.Errorf("failed to migrate credential database: %w", err)
	}

	var tracer ports.Tracer = &noOpTracer{}
	if cfg.Tracing.Enabled {
		tracer = adapters.NewZerologTracer(logger)
	}

	return &Service{
		cfg:        cfg,
		credDB:     credDB,
		creds:      adapters.NewLibSQLCredentialStore(credDB),
		partitions: db.NewPartitionManager(logger),
		generator:  generator,
		fetcher:    fetcher,
		tracer:     tracer,
		logger:     logger,
	}, nil
}

// Provisioner returns the credential provisioner.
func (s *Service) Provisioner() *ApiKeyHandler {
	return NewApiKeyHandler(s.cfg.Storage.DataDir, s.creds)
}

// Credentials exposes the global credential store.
func (s *Service) Credentials() ports.CredentialStore {
	return s.creds
}

// ResolvePartition maps a bearer token to its partition stores. Unknown
// tokens yield ErrUnknownCredential.
func (s *Service) ResolvePartition(ctx context.Context, token string) (*Partition, error) {
	cred, err := s.creds.Resolve(ctx, token)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrUnknownCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credential: %w", err)
	}

	conn, err := s.partitions.Open(ctx, cred.PartitionPath)
	if err != nil {
		return nil, err
	}

	return &Partition{
		Chats: adapters.NewLibSQLConversationStore(conn),
		Cache: adapters.NewLibSQLCacheStore(conn),
	}, nil
}

// ChatHandlerFor resolves token and returns a chat handler bound to its
// partition.
func (s *Service) ChatHandlerFor(ctx context.Context, token string) (*ChatHandler, error) {
	partition, err := s.ResolvePartition(ctx, token)
	if err != nil {
		return nil, err
	}
	return NewChatHandler(partition.Chats, partition.Cache, s.generator, s.tracer, s.cfg.Chat.WindowSize), nil
}

// NewsHandlerFor resolves token and returns a news pipeline bound to its
// partition.
func (s *Service) NewsHandlerFor(ctx context.Context, token string) (*NewsHandler, error) {
	partition, err := s.ResolvePartition(ctx, token)
	if err != nil {
		return nil, err
	}
	return NewNewsHandler(
		s.fetcher,
		partition.Chats,
		partition.Cache,
		s.generator,
		s.tracer,
		s.cfg.News.DefaultInterest,
		s.cfg.Chat.WindowSize,
	), nil
}

// Close releases the credential database and every open partition.
func (s *Service) Close() error {
	err := s.partitions.Close()
	if cerr := s.credDB.Close(); err == nil {
		err = cerr
	}
	return err
}

// noOpTracer implements Tracer with no-op behavior for disabled tracing.
type noOpTracer struct{}

func (t *noOpTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(err error) {}
}

func (t *noOpTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

// Ensure noOpTracer implements the Tracer interface.
var _ ports.Tracer = (*noOpTracer)(nil)
