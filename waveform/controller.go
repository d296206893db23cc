package waveform

import (
	"fmt"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/media"
	"github.com/kbukum/fluency/transcript"
)

// State is the playback state of the controller.
type State int

const (
	Unloaded State = iota
	Loading
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Ready reports whether audio has finished loading.
func (s State) Ready() bool { return s == Paused || s == Playing }

// Listener is told about controller changes. It is called on the dispatch goroutine.
type Listener interface {
	Loaded(duration float64)
	RangeChanged(r transcript.TimeRange)
	PlaybackChanged(playing bool)
	Failed(err error)
}

// Dispatch runs fn on the goroutine that owns the controller.
type Dispatch func(fn func())

// Controller tracks the loaded engine, play state and the selected range.
// Its methods must be called on the dispatch goroutine.
type Controller struct {
	cfg      Config
	factory  Factory
	dispatch Dispatch
	listener Listener
	log      *logger.Logger

	engine     Engine
	generation uint64
	state      State
	duration   float64
	selection  transcript.TimeRange
	region     transcript.TimeRange
}

// NewController creates an unloaded controller.
func NewController(cfg Config, factory Factory, dispatch Dispatch, listener Listener, log *logger.Logger) *Controller {
	cfg.ApplyDefaults()
	return &Controller{
		cfg:      cfg,
		factory:  factory,
		dispatch: dispatch,
		listener: listener,
		log:      log.WithComponent("waveform"),
	}
}

// State returns the current play state.
func (c *Controller) State() State { return c.state }

// Duration returns the loaded audio length in seconds, or 0.
func (c *Controller) Duration() float64 { return c.duration }

// Range returns the time range that drives word selection.
func (c *Controller) Range() transcript.TimeRange { return c.selection }

// Region returns the bounds of the drawn region, which is what playback covers.
func (c *Controller) Region() transcript.TimeRange { return c.region }

// Generation counts loads.
func (c *Controller) Generation() uint64 { return c.generation }

// Load tears down any current engine and starts loading src into a new one.
func (c *Controller) Load(src Source) error {
	c.teardown()
	c.generation++
	gen := c.generation

	engine, err := c.factory(&boundHandler{c: c, gen: gen})
	if err != nil {
		return errors.Internal(err).WithDetail("operation", "create waveform engine")
	}
	c.engine = engine
	c.state = Loading
	c.log.Debug("loading audio", logger.Fields(logger.FieldFilename, src.Name, logger.FieldGeneration, gen))

	if err := engine.Load(src); err != nil {
		c.teardown()
		return errors.UnsupportedAudio(media.Ext(src.Name)).WithCause(err)
	}
	return nil
}

// TogglePlay plays the region when paused and pauses when playing.
func (c *Controller) TogglePlay() error {
	switch c.state {
	case Paused:
		if err := c.engine.PlayRange(c.region.Start, c.region.End); err != nil {
			return errors.Internal(err).WithDetail("operation", "play")
		}
		c.setState(Playing)
	case Playing:
		if err := c.engine.Pause(); err != nil {
			return errors.Internal(err).WithDetail("operation", "pause")
		}
		c.setState(Paused)
	default:
		return errors.NotReady("play")
	}
	return nil
}

// Close destroys the engine and returns to Unloaded.
func (c *Controller) Close() {
	c.teardown()
	c.generation++
}

// teardown reports the emptied range when a range was set, so nothing stays
// selectable while no audio is loaded.
func (c *Controller) teardown() {
	if c.engine != nil {
		c.engine.Destroy()
		c.engine = nil
	}
	c.setState(Unloaded)
	hadRange := c.selection != transcript.TimeRange{}
	c.duration = 0
	c.selection = transcript.TimeRange{}
	c.region = transcript.TimeRange{}
	if hadRange {
		c.listener.RangeChanged(c.selection)
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	prev := c.state
	c.state = s
	if prev == Playing || s == Playing {
		c.listener.PlaybackChanged(s == Playing)
	}
}

func (c *Controller) current(gen uint64) bool {
	return gen == c.generation && c.engine != nil
}

func (c *Controller) onReady(gen uint64, duration float64) {
	if !c.current(gen) || c.state != Loading {
		return
	}
	if duration <= 0 {
		c.onFailed(gen, errors.InvalidFormat("audio", "non-empty audio"))
		return
	}

	start := c.cfg.RegionStartEpsilon
	if start+c.cfg.MinRegionLength > duration {
		start = 0
	}
	c.duration = duration
	c.selection = transcript.FullRange(duration)
	c.region = transcript.TimeRange{Start: start, End: duration}
	c.state = Paused

	spec := RegionSpec{Start: start, End: duration, MinLength: c.cfg.MinRegionLength, Drag: true, Resize: true}
	if err := c.engine.SetRegion(spec); err != nil {
		c.log.Warn("failed to draw region", logger.ErrorFields("set_region", err))
	}
	c.log.Info("audio ready", logger.Fields("duration", duration, logger.FieldGeneration, gen))
	c.listener.Loaded(duration)
	c.listener.RangeChanged(c.selection)
}

func (c *Controller) onRegionUpdated(gen uint64, start, end float64) {
	if !c.current(gen) || !c.state.Ready() {
		return
	}
	r, err := transcript.NewTimeRange(start, end, c.duration)
	if err == nil && r.Length() < c.cfg.MinRegionLength {
		err = errors.RegionTooShort(r.Length(), c.cfg.MinRegionLength)
	}
	if err != nil {
		c.log.Warn("region update rejected", logger.MergeWithError(logger.RegionFields(start, end), err))
		c.listener.Failed(err)
		return
	}
	c.selection = r
	c.region = r
	c.log.Debug("region updated", logger.RegionFields(start, end))
	c.listener.RangeChanged(r)
}

func (c *Controller) onRegionClicked(gen uint64) {
	if !c.current(gen) || !c.state.Ready() {
		return
	}
	if err := c.TogglePlay(); err != nil {
		c.listener.Failed(err)
	}
}

func (c *Controller) onFinished(gen uint64) {
	if !c.current(gen) {
		return
	}
	if c.state == Playing {
		c.setState(Paused)
	}
}

func (c *Controller) onFailed(gen uint64, err error) {
	if !c.current(gen) {
		return
	}
	c.log.Error("waveform engine failed", logger.ErrorFields("engine", err))
	if c.state == Loading {
		c.teardown()
	} else if c.state == Playing {
		c.setState(Paused)
	}
	c.listener.Failed(err)
}

// boundHandler forwards one engine's events onto the dispatch goroutine,
// tagged with the generation that created it.
type boundHandler struct {
	c   *Controller
	gen uint64
}

func (h *boundHandler) Ready(duration float64) {
	h.c.dispatch(func() { h.c.onReady(h.gen, duration) })
}

func (h *boundHandler) RegionUpdated(start, end float64) {
	h.c.dispatch(func() { h.c.onRegionUpdated(h.gen, start, end) })
}

// RegionClicked stops propagation before returning so the engine does not
// also treat the click as a seek.
func (h *boundHandler) RegionClicked(ev *ClickEvent) {
	ev.StopPropagation()
	h.c.dispatch(func() { h.c.onRegionClicked(h.gen) })
}

func (h *boundHandler) Finished() {
	h.c.dispatch(func() { h.c.onFinished(h.gen) })
}

func (h *boundHandler) Failed(err error) {
	h.c.dispatch(func() { h.c.onFailed(h.gen, err) })
}
