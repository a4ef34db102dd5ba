package providers

import (
	"context"
	"errors"

	"github.com/vukan322/profilecard/internal/core"
)

// ErrNotFound is returned by a Provider when the handle does not exist.
var ErrNotFound = errors.New("user not found")

type Provider interface {
	Name() string
	Fetch(ctx context.Context, handle string) (core.Snapshot, error)
}
