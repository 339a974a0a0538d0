package coreports

import (
	"context"
)

// FileRef is an opaque reference to a file uploaded to the generative
// backend, usable as a part of a materialized context.
type FileRef struct {
	URI      string
	MIMEType string
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	// CachedContext, when non-empty, names a pre-materialized backend
	// context the generation should be grounded in.
	CachedContext string
}

// Generator is the abstraction for the generative-text backend. All calls
// are request/response; no streaming contract is assumed.
type Generator interface {
	// Generate invokes the backend's single-shot generation with the
	// ordered turn list as full context and returns the reply text.
	Generate(ctx context.Context, turns []Turn, opts GenerateOptions) (string, error)
	// UploadFile uploads raw bytes and returns an opaque remote reference.
	UploadFile(ctx context.Context, data []byte, mimeType string) (FileRef, error)
	// MaterializeContext creates a reusable backend-side context covering
	// the referenced files under the given system instruction, returning
	// an opaque handle.
	MaterializeContext(ctx context.Context, refs []FileRef, systemInstruction string) (string, error)
}
