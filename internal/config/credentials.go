package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Recognized personal access token prefixes. Lines in the token file
// that carry neither are skipped, which lets the file hold comments and
// placeholder rows without a separate syntax.
var tokenPrefixes = []string{"ghp_", "github_pat_"}

// Account pairs a token with the login it authenticated as. Login starts
// as a placeholder until a verification pass fills it in.
type Account struct {
	Login string `json:"login"`
	Token string `json:"token"`
	Index int    `json:"index"`
}

// LoadEnv loads a .env file into the process environment if one exists
// at path. Variables already set in the environment win.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// LoadTokens reads a token file, one token per line, and keeps the lines
// that look like personal access tokens.
func LoadTokens(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var tokens []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, prefix := range tokenPrefixes {
			if strings.HasPrefix(line, prefix) {
				tokens = append(tokens, line)
				break
			}
		}
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTokens, path)
	}
	return tokens, nil
}

// LoginCache persists the token-to-login mapping so accounts do not need
// re-verification on every start. Tokens index the map directly; the
// cache file lives alongside the rest of the orchestrator cache and must
// be protected like the token file itself.
type LoginCache struct {
	path   string
	logins map[string]string
}

// OpenLoginCache loads the cache file in dir, starting empty if it does
// not exist yet.
func OpenLoginCache(dir string) (*LoginCache, error) {
	c := &LoginCache{
		path:   filepath.Join(dir, "tokenmap.json"),
		logins: make(map[string]string),
	}

	content, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read login cache: %w", err)
	}
	if err := json.Unmarshal(content, &c.logins); err != nil {
		return nil, fmt.Errorf("parse login cache: %w", err)
	}
	return c, nil
}

// Login returns the cached login for a token, or "" when unknown.
func (c *LoginCache) Login(token string) string {
	return c.logins[token]
}

// Put records a token's verified login. Call Save to persist.
func (c *LoginCache) Put(token, login string) {
	c.logins[token] = login
}

// Save writes the cache to disk atomically.
func (c *LoginCache) Save() error {
	data, err := json.MarshalIndent(c.logins, "", "  ")
	if err != nil {
		return fmt.Errorf("encode login cache: %w", err)
	}
	return writeFileAtomic(c.path, data)
}

// Accounts builds the account list for a token file, filling logins from
// the cache where known and indexed placeholders where not.
func Accounts(tokens []string, cache *LoginCache) []Account {
	accounts := make([]Account, 0, len(tokens))
	for i, token := range tokens {
		login := cache.Login(token)
		if login == "" {
			login = fmt.Sprintf("user_%d", i)
		}
		accounts = append(accounts, Account{Login: login, Token: token, Index: i})
	}
	return accounts
}

// writeFileAtomic writes data to path via a temp file and rename, so a
// crash mid-write never leaves a truncated file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
