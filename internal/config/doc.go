// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. The loaded Config
// is treated as immutable once Load returns; components receive the section
// they need (for example AuthConfig for the token service) at construction.
package config
