// Package component defines lifecycle-managed services and a registry that
// starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line startup summary
package component
