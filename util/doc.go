// Package util provides small generic helpers shared across fluency
// packages: slice operations, size parsing and filename sanitizing.
package util
