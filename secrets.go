package forgeseal

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeseal/client-go/internal/api"
	"github.com/forgeseal/client-go/internal/sealbox"
)

// PublicKey is a repository's Actions secrets public key. Key is the
// base64-encoded 32-byte encryption key; KeyID identifies it to the
// server when a sealed secret is submitted.
type PublicKey struct {
	KeyID string
	Key   string
}

// Secret names a secret and the value to store for it. The value is
// sealed before it leaves the process and is never logged.
type Secret struct {
	Name  string
	Value []byte
}

// SecretInfo is a stored secret's metadata; values are never readable back.
type SecretInfo struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RepoPublicKey fetches the secrets public key for a repository. The key
// is fetched fresh per sealing operation rather than cached: the forge
// may rotate it, and a sealed value is only accepted under the key ID it
// names.
func (c *Client) RepoPublicKey(ctx context.Context, repo string) (*PublicKey, error) {
	key, err := c.apiClient.GetRepoPublicKey(ctx, repo)
	if err != nil {
		return nil, wrapError(err)
	}
	return &PublicKey{KeyID: key.KeyID, Key: key.Key}, nil
}

// SetSecret seals value under the repository's public key and stores it
// as the named Actions secret, creating or updating it.
//
// A sealing failure is reported as a *SealError wrapping the precise
// cause: ErrPublicKeyDecode means the forge served a malformed key and
// retrying cannot help; ErrEncryption means the local subsystem is
// unhealthy.
func (c *Client) SetSecret(ctx context.Context, repo, name string, value []byte) error {
	key, err := c.RepoPublicKey(ctx, repo)
	if err != nil {
		return fmt.Errorf("fetch public key for %s: %w", repo, err)
	}

	sealed, err := sealbox.Seal(key.Key, value)
	if err != nil {
		return &SealError{Repo: repo, Secret: name, Err: err}
	}

	req := &api.PutSecretRequest{
		EncryptedValue: sealed,
		KeyID:          key.KeyID,
	}
	if err := c.apiClient.PutRepoSecret(ctx, repo, name, req); err != nil {
		return wrapError(err)
	}
	return nil
}

// SetSecrets stores multiple secrets in order. The public key is fetched
// once and reused for the batch; it stops at the first failure and
// reports which secret failed.
func (c *Client) SetSecrets(ctx context.Context, repo string, secrets []Secret) error {
	if len(secrets) == 0 {
		return nil
	}

	key, err := c.RepoPublicKey(ctx, repo)
	if err != nil {
		return fmt.Errorf("fetch public key for %s: %w", repo, err)
	}

	for _, secret := range secrets {
		sealed, err := sealbox.Seal(key.Key, secret.Value)
		if err != nil {
			return &SealError{Repo: repo, Secret: secret.Name, Err: err}
		}

		req := &api.PutSecretRequest{
			EncryptedValue: sealed,
			KeyID:          key.KeyID,
		}
		if err := c.apiClient.PutRepoSecret(ctx, repo, secret.Name, req); err != nil {
			return fmt.Errorf("store secret %s: %w", secret.Name, wrapError(err))
		}
	}
	return nil
}

// SecretExists reports whether the named secret exists in the repository.
func (c *Client) SecretExists(ctx context.Context, repo, name string) (bool, error) {
	_, err := c.apiClient.GetRepoSecret(ctx, repo, name)
	if err != nil {
		err = wrapError(err)
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteSecret removes the named secret from the repository.
func (c *Client) DeleteSecret(ctx context.Context, repo, name string) error {
	return wrapError(c.apiClient.DeleteRepoSecret(ctx, repo, name))
}

// ListSecrets lists the repository's secrets metadata.
func (c *Client) ListSecrets(ctx context.Context, repo string) ([]SecretInfo, error) {
	list, err := c.apiClient.ListRepoSecrets(ctx, repo)
	if err != nil {
		return nil, wrapError(err)
	}

	infos := make([]SecretInfo, 0, len(list.Secrets))
	for _, s := range list.Secrets {
		infos = append(infos, SecretInfo{
			Name:      s.Name,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return infos, nil
}
