package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/aws/smithy-go"
)

// credentialGuard marks credential chain failures with ErrMissingCredentials.
// The SDK wraps identity errors with %w, so the sentinel survives to the caller.
// Credentials that were found but rejected keep their own error.
type credentialGuard struct {
	provider aws.CredentialsProvider
}

// Retrieve implements aws.CredentialsProvider.
func (g credentialGuard) Retrieve(ctx context.Context) (aws.Credentials, error) {
	if g.provider == nil {
		return aws.Credentials{}, ErrMissingCredentials
	}
	creds, err := g.provider.Retrieve(ctx)
	if err != nil {
		if credentialsRejected(err) {
			return aws.Credentials{}, err
		}
		return aws.Credentials{}, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}
	if !creds.HasKeys() {
		return aws.Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}

// credentialsRejected reports whether the chain found credentials that could
// not be used: a service such as STS refused them, or a cached SSO token expired.
func credentialsRejected(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var tokenErr *ssocreds.InvalidTokenError
	return errors.As(err, &tokenErr)
}

// guardCredentials replaces the config's provider with a cached, guarded one.
func guardCredentials(cfg *aws.Config) {
	cfg.Credentials = aws.NewCredentialsCache(credentialGuard{provider: cfg.Credentials})
}
