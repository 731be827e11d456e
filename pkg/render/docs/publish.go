package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// ErrNoToken indicates no stored OAuth token exists yet.
var ErrNoToken = errors.New("no stored token; run the auth command first")

// Credentials locates the OAuth client secret and the stored user token.
type Credentials struct {
	ClientSecretFile string
	TokenFile        string
}

// Config loads the OAuth client configuration for the Docs scope.
func (c Credentials) Config() (*oauth2.Config, error) {
	data, err := os.ReadFile(c.ClientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, gdocs.DocumentsScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}
	return cfg, nil
}

// Token loads the stored token.
func (c Credentials) Token() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &tok, nil
}

// SaveToken stores tok for later runs.
func (c Credentials) SaveToken(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, data, 0o600)
}

// Authorize exchanges an authorization code and stores the resulting token.
func (c Credentials) Authorize(ctx context.Context, code string) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return c.SaveToken(tok)
}

// NewService creates a Docs API service using the stored token.
func NewService(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*gdocs.Service, error) {
	cfg, err := creds.Config()
	if err != nil {
		return nil, err
	}
	tok, err := creds.Token()
	if err != nil {
		return nil, err
	}
	opts = append([]option.ClientOption{option.WithTokenSource(cfg.TokenSource(ctx, tok))}, opts...)
	return gdocs.NewService(ctx, opts...)
}

// Publish creates a document titled title and applies reqs to it, returning
// the new document's id.
func Publish(ctx context.Context, svc *gdocs.Service, title string, reqs []*gdocs.Request) (string, error) {
	created, err := svc.Documents.Create(&gdocs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if len(reqs) == 0 {
		return created.DocumentId, nil
	}

	_, err = svc.Documents.BatchUpdate(created.DocumentId, &gdocs.BatchUpdateDocumentRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return created.DocumentId, fmt.Errorf("update document %s: %w", created.DocumentId, err)
	}
	return created.DocumentId, nil
}
