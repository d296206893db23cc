package provider

import "context"

// Initializable is implemented by providers that need setup before use.
// Manager.Initialize calls Init after the factory returns.
type Initializable interface {
	Init(ctx context.Context) error
}

// Closeable is implemented by providers holding resources.
// Manager.Close calls Close on every initialized provider.
type Closeable interface {
	Close(ctx context.Context) error
}
