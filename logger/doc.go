// Package logger provides structured logging for the fluency editor and
// service using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.GetGlobalLogger().WithComponent("archive")
//	log.Info("transcript stored", logger.Fields(logger.FieldFilename, name))
package logger
