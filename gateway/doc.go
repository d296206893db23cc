// Package gateway is the client side of the transcription service: it
// uploads audio for transcription, saves edited transcripts and downloads
// the stored copy.
//
// Every failure is returned as an EXTERNAL_SERVICE_ERROR AppError wrapping
// the classified *httpclient.Error, so callers can treat the gateway as a
// single transport boundary.
package gateway
