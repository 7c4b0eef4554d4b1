package forgeseal

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/forgeseal/client-go/internal/api"
)

// RepoFile is a file fetched through the contents API.
type RepoFile struct {
	Path    string
	SHA     string
	Content []byte
}

// GetFile fetches a file from a repository, or nil if it does not exist.
func (c *Client) GetFile(ctx context.Context, repo, path string) (*RepoFile, error) {
	file, err := c.apiClient.GetContent(ctx, repo, path)
	if err != nil {
		err = wrapError(err)
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	// The contents API wraps base64 at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode content of %s: %w", path, err)
	}

	return &RepoFile{Path: file.Path, SHA: file.SHA, Content: raw}, nil
}

// PutFile creates or updates a file in a repository through the contents
// API, committing with the given message. When the file already exists
// its current blob SHA must be passed so the forge can detect conflicting
// writes; pass an empty sha to create.
func (c *Client) PutFile(ctx context.Context, repo, path, branch, message string, content []byte, sha string) error {
	req := &api.PutContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  branch,
		SHA:     sha,
	}
	return wrapError(c.apiClient.PutContent(ctx, repo, path, req))
}
