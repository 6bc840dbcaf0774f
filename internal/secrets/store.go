// Package secrets reads configuration secrets from AWS SSM Parameter Store.
// API tokens (OpenAI, Jira, Google Drive) are stored as JSON payloads of the
// form {"token":"..."} under a common parameter prefix.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmAPI is the minimal AWS SSM interface required by Store.
// *ssm.Client from aws-sdk-go-v2 satisfies it.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// TokenSource is the capability integrations depend on for API tokens.
// Consumers should accept this interface rather than the concrete *Store so
// they remain testable without real AWS calls.
type TokenSource interface {
	Token(ctx context.Context, name string) (string, error)
}

// Store wraps an SSM API for decrypted parameter retrieval under a fixed
// prefix.
type Store struct {
	api    ssmAPI
	prefix string
}

// New creates a Store rooted at the given parameter prefix.
func New(api ssmAPI, prefix string) (*Store, error) {
	if api == nil {
		return nil, errors.New("secrets: api must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("secrets: parameter prefix must not be empty")
	}
	return &Store{api: api, prefix: prefix}, nil
}

// Value returns the decrypted raw value of the parameter at prefix/name.
func (s *Store) Value(ctx context.Context, name string) (string, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return "", errors.New("secrets: parameter name must not be empty")
	}
	full := s.prefix + "/" + name

	withDecryption := true
	out, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &full,
		WithDecryption: &withDecryption,
	})
	if err != nil {
		return "", fmt.Errorf("secrets: get parameter %q: %w", full, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("secrets: parameter %q has no value", full)
	}
	return *out.Parameter.Value, nil
}

// tokenPayload is the expected JSON shape of stored API tokens.
type tokenPayload struct {
	Token string `json:"token"`
}

// Token returns the token field of the JSON payload stored at prefix/name.
func (s *Store) Token(ctx context.Context, name string) (string, error) {
	raw, err := s.Value(ctx, name)
	if err != nil {
		return "", err
	}
	var tp tokenPayload
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return "", fmt.Errorf("secrets: unmarshal token payload %q: %w", name, err)
	}
	if tp.Token == "" {
		return "", fmt.Errorf("secrets: token %q is empty", name)
	}
	return tp.Token, nil
}
