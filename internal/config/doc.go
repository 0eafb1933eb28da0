// Package config handles configuration loading, parsing, and validation
// from a config.yaml file and HANZI_ prefixed environment variables. It
// provides type-safe access to the server, storage, practice and scheduler
// settings while keeping configuration details out of business logic.
package config
