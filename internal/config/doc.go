// Package config loads the file-based inputs of the orchestration layer:
// account tokens, per-token proxies, node/wallet rosters, and alert sink
// settings. All loaders return plain values; nothing here talks to the
// network.
package config
