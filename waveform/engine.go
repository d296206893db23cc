package waveform

// Source is an audio file handed to the engine.
type Source struct {
	Name string
	Data []byte
}

// RegionSpec describes the selection region the engine should draw.
type RegionSpec struct {
	Start     float64
	End       float64
	MinLength float64
	Drag      bool
	Resize    bool
}

// Engine decodes, renders and plays audio. Implementations report progress
// through the Handler given to the Factory and may call it from any goroutine.
// Events an engine reports after Destroy are ignored by the Controller.
type Engine interface {
	// Load starts decoding src. Ready or Error is reported through the Handler.
	Load(src Source) error
	// SetRegion replaces the selection region.
	SetRegion(spec RegionSpec) error
	// PlayRange plays from start and reports Finish on reaching end.
	PlayRange(start, end float64) error
	// Pause stops playback without reporting Finish.
	Pause() error
	// Destroy releases the engine.
	Destroy()
}

// Handler receives engine events.
type Handler interface {
	Ready(duration float64)
	RegionUpdated(start, end float64)
	RegionClicked(ev *ClickEvent)
	Finished()
	Failed(err error)
}

// Factory creates an engine bound to h.
type Factory func(h Handler) (Engine, error)

// ClickEvent is a click on the selection region.
type ClickEvent struct {
	stopped bool
}

// StopPropagation keeps the click from reaching the waveform underneath,
// which would otherwise seek.
func (e *ClickEvent) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *ClickEvent) Stopped() bool { return e.stopped }
