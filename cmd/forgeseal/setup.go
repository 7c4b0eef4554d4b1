package main

import (
	"fmt"
	"os"
	"path/filepath"

	forgeseal "github.com/forgeseal/client-go"
	"github.com/forgeseal/client-go/internal/config"
	"github.com/forgeseal/client-go/internal/state"
	"github.com/forgeseal/client-go/orchestrate"
)

// tokenFromEnv returns the single-account token for the secrets commands.
func tokenFromEnv() (string, error) {
	token := os.Getenv("FORGESEAL_TOKEN")
	if token == "" {
		return "", fmt.Errorf("FORGESEAL_TOKEN is not set")
	}
	return token, nil
}

// singleClient builds a client from the environment token.
func singleClient() (*forgeseal.Client, error) {
	token, err := tokenFromEnv()
	if err != nil {
		return nil, err
	}

	var opts []forgeseal.Option
	if base := os.Getenv("FORGESEAL_API_URL"); base != "" {
		opts = append(opts, forgeseal.WithBaseURL(base))
	}
	return forgeseal.New(token, opts...)
}

// buildOrchestrator wires the config directory into a ready orchestrator:
// tokens, per-token proxies, verified clients, persisted chain state, and
// alert sinks.
func buildOrchestrator(configDir, sourceRepo, workflowFile string) (*orchestrate.Orchestrator, *state.Manager, error) {
	cacheDir := filepath.Join(configDir, "cache")
	if err := os.MkdirAll(cacheDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create cache dir: %w", err)
	}

	tokens, err := config.LoadTokens(filepath.Join(configDir, "tokens.txt"))
	if err != nil {
		return nil, nil, err
	}

	var proxies *config.ProxyMap
	proxyPath := filepath.Join(configDir, "proxies.txt")
	if _, err := os.Stat(proxyPath); err == nil {
		proxies, err = config.LoadProxyMap(proxyPath, tokens)
		if err != nil {
			return nil, nil, err
		}
		if err := proxies.Save(cacheDir); err != nil {
			log.WithError(err).Warn("persist proxy map")
		}
	}

	cache, err := config.OpenLoginCache(cacheDir)
	if err != nil {
		return nil, nil, err
	}

	var accounts []orchestrate.Account
	for _, acct := range config.Accounts(tokens, cache) {
		opts := []forgeseal.Option{}
		if base := os.Getenv("FORGESEAL_API_URL"); base != "" {
			opts = append(opts, forgeseal.WithBaseURL(base))
		}
		if proxies != nil {
			if proxy := proxies.Proxy(acct.Token); proxy != nil {
				opts = append(opts, forgeseal.WithProxy(proxy))
			}
		}

		client, err := forgeseal.New(acct.Token, opts...)
		if err != nil {
			log.WithError(err).Warnf("account %s failed verification, skipping", acct.Login)
			continue
		}

		// The cached login may be a placeholder; the verified one wins.
		cache.Put(acct.Token, client.Login())
		accounts = append(accounts, orchestrate.Account{
			Index:  acct.Index,
			Login:  client.Login(),
			Client: client,
		})
		log.Debugf("verified account %d as %s", acct.Index, client.Login())
	}
	if len(accounts) == 0 {
		return nil, nil, fmt.Errorf("no account passed verification")
	}
	if err := cache.Save(); err != nil {
		log.WithError(err).Warn("persist login cache")
	}

	states, err := state.NewManager(cacheDir)
	if err != nil {
		return nil, nil, err
	}

	alertCfg, err := config.LoadAlertConfig(filepath.Join(configDir, "alerts.json"))
	if err != nil {
		return nil, nil, err
	}

	o, err := orchestrate.New(orchestrate.Config{
		Accounts:     accounts,
		SourceRepo:   sourceRepo,
		WorkflowFile: workflowFile,
		States:       states,
		Alerter:      orchestrate.NewAlerter(alertCfg),
		Log:          log,
	})
	if err != nil {
		return nil, nil, err
	}
	return o, states, nil
}
