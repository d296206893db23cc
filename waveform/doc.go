// Package waveform controls audio playback and the draggable selection
// region drawn over the waveform.
//
// Rendering and decoding live behind the Engine interface. The Controller
// owns the play state machine (Unloaded, Loading, Paused, Playing) and the
// selected time range, and it runs every engine callback through a
// dispatch function so that state changes happen on a single goroutine.
// Events from an engine that has been replaced by a later Load are dropped.
package waveform
