package waveform

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a headless Engine. It probes the source for its duration and
// plays by waiting in real time, scaled by its speed. Drag, Click and
// Complete stand in for the user and the end of playback.
type Clock struct {
	mu        sync.Mutex
	h         Handler
	probe     Prober
	speed     float64
	destroyed bool
	loaded    bool
	duration  float64
	region    RegionSpec
	playing   bool
	plays     uint64
	from, to  float64
	timer     *time.Timer
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithProber sets how the Clock learns a source's duration. The default is ProbeWAV.
func WithProber(p Prober) ClockOption {
	return func(c *Clock) { c.probe = p }
}

// WithSpeed scales playback time. A speed of 0 never finishes on its own.
func WithSpeed(speed float64) ClockOption {
	return func(c *Clock) { c.speed = speed }
}

// ClockFactory builds Clocks and remembers them.
type ClockFactory struct {
	mu     sync.Mutex
	opts   []ClockOption
	clocks []*Clock
}

// NewClockFactory returns a factory for Clocks configured with opts.
func NewClockFactory(opts ...ClockOption) *ClockFactory {
	return &ClockFactory{opts: opts}
}

// New satisfies Factory.
func (f *ClockFactory) New(h Handler) (Engine, error) {
	c := &Clock{h: h, probe: ProbeWAV, speed: 1}
	for _, opt := range f.opts {
		opt(c)
	}
	f.mu.Lock()
	f.clocks = append(f.clocks, c)
	f.mu.Unlock()
	return c, nil
}

// Last returns the most recently created Clock, or nil.
func (f *ClockFactory) Last() *Clock {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clocks) == 0 {
		return nil
	}
	return f.clocks[len(f.clocks)-1]
}

// Count returns how many Clocks were created.
func (f *ClockFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clocks)
}

// Load probes src and reports Ready asynchronously.
func (c *Clock) Load(src Source) error {
	d, err := c.probe(src)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return fmt.Errorf("engine destroyed")
	}
	c.duration = d
	c.loaded = true
	c.mu.Unlock()

	go c.emit(func(h Handler) { h.Ready(d) })
	return nil
}

// SetRegion records the region.
func (c *Clock) SetRegion(spec RegionSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return fmt.Errorf("no audio loaded")
	}
	c.region = spec
	return nil
}

// PlayRange starts playback of [start, end].
func (c *Clock) PlayRange(start, end float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || c.destroyed {
		return fmt.Errorf("no audio loaded")
	}
	if start < 0 || end > c.duration || end <= start {
		return fmt.Errorf("play range [%g, %g] outside [0, %g]", start, end, c.duration)
	}
	c.stopLocked()
	c.plays++
	c.playing, c.from, c.to = true, start, end
	if c.speed > 0 {
		seq := c.plays
		wait := time.Duration((end - start) / c.speed * float64(time.Second))
		c.timer = time.AfterFunc(wait, func() { c.complete(seq) })
	}
	return nil
}

// Pause stops playback.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return nil
}

// Destroy stops playback and silences the Clock.
func (c *Clock) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.destroyed = true
}

// Complete ends the current playback as if it reached the end of the range.
func (c *Clock) Complete() {
	c.mu.Lock()
	seq := c.plays
	c.mu.Unlock()
	c.complete(seq)
}

// complete ends playback number seq. A timer that fired for an earlier
// playback finds a newer seq and does nothing.
func (c *Clock) complete(seq uint64) {
	c.mu.Lock()
	if !c.playing || c.plays != seq {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.mu.Unlock()
	c.emit(func(h Handler) { h.Finished() })
}

// Drag reports a finished drag or resize of the region to [start, end].
func (c *Clock) Drag(start, end float64) {
	c.emit(func(h Handler) { h.RegionUpdated(start, end) })
}

// Click reports a click on the region and returns whether propagation was stopped.
func (c *Clock) Click() bool {
	ev := &ClickEvent{}
	c.emit(func(h Handler) { h.RegionClicked(ev) })
	return ev.Stopped()
}

// Fail reports an engine error.
func (c *Clock) Fail(err error) {
	c.emit(func(h Handler) { h.Failed(err) })
}

// Playing reports whether the Clock is playing and over which range.
func (c *Clock) Playing() (playing bool, from, to float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing, c.from, c.to
}

// Region returns the last region set.
func (c *Clock) Region() RegionSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.region
}

// Destroyed reports whether Destroy was called.
func (c *Clock) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (c *Clock) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.playing = false
}

// emit calls fn with the handler unless the Clock has been destroyed. The
// lock is released first since handlers may block on dispatch.
func (c *Clock) emit(fn func(Handler)) {
	c.mu.Lock()
	dead := c.destroyed
	c.mu.Unlock()
	if !dead {
		fn(c.h)
	}
}
