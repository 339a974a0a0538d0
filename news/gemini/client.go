// Package gemini adapts the Google Gemini API to the core Generator port.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	ports "github.com/longlodw/news/news/core/ports"
)

// Client implements the Generator port on top of the Gemini API: one-shot
// generation, file upload, and explicit context caching.
type Client struct {
	client   *genai.Client
	model    string
	cacheTTL time.Duration
}

// NewClient creates a Gemini-backed generator.
func NewClient(ctx context.Context, apiKey, model string, cacheTTL time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: model, cacheTTL: cacheTTL}, nil
}

// Generate invokes single-shot generation over the ordered turn list.
func (c *Client) Generate(ctx context.Context, turns []ports.Turn, opts ports.GenerateOptions) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, genai.NewContentFromText(turn.Content, toGenaiRole(turn.Role)))
	}

	var cfg *genai.GenerateContentConfig
	if opts.CachedContext != "" {
		cfg = &genai.GenerateContentConfig{CachedContent: opts.CachedContext}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return resp.Text(), nil
}

// UploadFile uploads raw bytes and returns the remote file reference.
func (c *Client) UploadFile(ctx context.Context, data []byte, mimeType string) (ports.FileRef, error) {
	file, err := c.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return ports.FileRef{}, fmt.Errorf("file upload failed: %w", err)
	}
	return ports.FileRef{URI: file.URI, MIMEType: file.MIMEType}, nil
}

// MaterializeContext creates an explicit cached context over the uploaded
// files and returns its handle.
func (c *Client) MaterializeContext(ctx context.Context, refs []ports.FileRef, systemInstruction string) (string, error) {
	parts := make([]*genai.Part, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, genai.NewPartFromURI(ref.URI, ref.MIMEType))
	}

	cached, err := c.client.Caches.Create(ctx, c.model, &genai.CreateCachedContentConfig{
		Contents:          []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		TTL:               c.cacheTTL,
	})
	if err != nil {
		return "", fmt.Errorf("context materialization failed: %w", err)
	}
	return cached.Name, nil
}

func toGenaiRole(role ports.Role) genai.Role {
	if role == ports.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Ensure Client implements the Generator port.
var _ ports.Generator = (*Client)(nil)
