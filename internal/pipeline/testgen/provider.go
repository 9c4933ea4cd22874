package testgen

import "context"

// Provider is a completion backend. It takes a prompt and returns the
// raw model output, which the service parses and validates.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
