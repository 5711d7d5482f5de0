package fsh

import (
	"os"
)

// EnvProvider looks up environment variables. Code that reads configuration
// from the environment takes an EnvProvider so tests can supply their own.
type EnvProvider interface {
	Get(key string) string
}

// OSEnvProvider reads the process environment.
type OSEnvProvider struct{}

func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

func (*OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}

// MapEnvProvider serves a fixed environment. Missing keys read as empty.
type MapEnvProvider map[string]string

func (m MapEnvProvider) Get(key string) string {
	return m[key]
}
