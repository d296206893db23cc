// Package api mounts the transcript routes on a Gin router:
//
//	POST /upload                  multipart field "file", returns the transcript
//	POST /update-json/:filename   replaces the stored transcript
//	GET  /download/:filename      serves it as <filename>_transcription.json
//	GET  /transcripts             lists filenames with a stored transcript
//
// Errors are written as errors.ErrorResponse bodies with the AppError status.
package api
