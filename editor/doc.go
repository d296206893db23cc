// Package editor coordinates the transcript editor: the waveform region,
// the transcript store, the word filter, the edit session and the gateway.
//
// All state lives on one event loop started by Run. Public methods post
// closures onto the loop and wait for their result, engine callbacks are
// posted by the waveform controller, and gateway calls run on their own
// goroutines with only their completions posted back. Nothing outside the
// loop touches the store or the time range, so none of it is locked.
package editor
