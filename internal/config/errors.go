package config

import "errors"

// Sentinel errors for errors.Is() checks.
var (
	// ErrNoTokens is returned when a token file yields no usable tokens.
	ErrNoTokens = errors.New("no valid tokens found")

	// ErrNoNodes is returned when a node roster file is empty.
	ErrNoNodes = errors.New("no node ids found")

	// ErrRosterMismatch is returned when node ids and wallets differ in count.
	ErrRosterMismatch = errors.New("node ids and wallets count mismatch")

	// ErrNotEnoughProxies is returned when there are fewer proxies than tokens.
	ErrNotEnoughProxies = errors.New("not enough proxies for tokens")

	// ErrInvalidProxy is returned when a proxy URL cannot be parsed or is
	// missing required parts.
	ErrInvalidProxy = errors.New("invalid proxy URL")

	// ErrInvalidWallet is returned when a wallet address fails validation.
	ErrInvalidWallet = errors.New("invalid wallet address")

	// ErrInvalidNodeID is returned when a node id fails validation.
	ErrInvalidNodeID = errors.New("invalid node id")
)
