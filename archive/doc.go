// Package archive is the server-side persistence behind the upload,
// update-json and download routes.
//
// Ingest transcribes an uploaded audio file through a transcription.Provider
// and stores the resulting document under transcripts/<filename>.json.
// Update replaces that document with a client-edited copy, byte for byte,
// once it decodes as a transcript. Download returns whatever is stored.
//
//	svc := archive.New(store.Bytes(), provider, metrics, log)
//	doc, err := svc.Ingest(ctx, "talk.wav", audio)
package archive
