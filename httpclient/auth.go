package httpclient

import (
	"fmt"
	"net/http"
)

// Auth schemes understood by AuthConfig.
const (
	AuthBearer = "bearer"
	AuthAPIKey = "api_key"
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig describes how requests authenticate.
type AuthConfig struct {
	// Type is AuthBearer or AuthAPIKey.
	Type string `yaml:"type" mapstructure:"type"`
	// Token is the bearer token or API key.
	Token string `yaml:"token" mapstructure:"token"`
	// Header carries the API key. Defaults to X-API-Key.
	Header string `yaml:"header" mapstructure:"header"`
}

// BearerAuth authenticates with an Authorization: Bearer header.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth sends key in header, or X-API-Key when header is empty.
func APIKeyAuth(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Token: key, Header: header}
}

func (a *AuthConfig) validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer, AuthAPIKey:
	default:
		return fmt.Errorf("httpclient: unknown auth type %q", a.Type)
	}
	if a.Token == "" {
		return fmt.Errorf("httpclient: auth token is required")
	}
	return nil
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Token == "" {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Header
		if name == "" {
			name = defaultAPIKeyHeader
		}
		req.Header.Set(name, a.Token)
	}
}
