package storage

import (
	"context"

	"github.com/kbukum/fluency/provider"
)

var _ provider.Provider = (*Component)(nil)

// IsAvailable reports whether the storage backend is started.
func (c *Component) IsAvailable(_ context.Context) bool {
	return c.Storage() != nil
}
