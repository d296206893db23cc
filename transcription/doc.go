// Package transcription defines the speech-to-text provider interface used
// behind POST /upload.
//
// Providers return a transcript.Transcript whose words carry millisecond
// timings and a QC flag. Backends register a provider.Factory by name:
//
//	mgr := transcription.NewManager()
//	mgr.Register(whisper.ProviderName, whisper.Factory())
//	_ = mgr.Initialize(ctx, whisper.ProviderName, cfg.Options)
//	p, _ := mgr.GetByName(whisper.ProviderName)
//	t, err := transcription.Instrument(p, cfg.Resilience, metrics, log).
//	    Execute(ctx, transcription.Request{Filename: "take1.wav", Audio: data})
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
package transcription
