package config

import (
	"os"
	"strings"
)

// SecretProvider resolves credentials by name. Blank values count as missing.
type SecretProvider interface {
	Secret(name string) (string, bool)
}

// EnvSecrets reads secrets from the process environment.
type EnvSecrets struct{}

func (EnvSecrets) Secret(name string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(name))
	return value, value != ""
}

// StaticSecrets serves a fixed map, used by tests and by callers that load
// credentials elsewhere.
type StaticSecrets map[string]string

func (s StaticSecrets) Secret(name string) (string, bool) {
	value := strings.TrimSpace(s[name])
	return value, value != ""
}
