// Package storage provides object storage abstractions with pluggable backends.
//
// # Backends
//
//   - storage/local: local filesystem, the default
//   - storage/s3: Amazon S3 and S3-compatible storage
//   - storage/memory: in-process map for tests and ephemeral runs
//
// Backends register themselves on import; New picks one by Config.Provider:
//
//	storage:
//	  enabled: true
//	  provider: "s3"
//	  bucket: "fluency-transcripts"
//	  region: "us-east-1"
package storage
