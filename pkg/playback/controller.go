// Package playback sequences paragraph-by-paragraph narration of an
// answer: each paragraph is synthesized and played, followed by a doubt
// window during which the listener may interrupt with a follow-up
// question before the controller advances. A new question supersedes
// whatever was playing; superseded audio and timers become no-ops.
package playback

import (
	"context"
	"strings"
	"sync"
	"time"
)

type State string

const (
	StateIdle      State = "idle"
	StateThinking  State = "thinking"
	StatePlaying   State = "playing"
	StateWaiting   State = "waiting"
	StateListening State = "listening"
	StatePaused    State = "paused"
)

// Clip is a piece of audio that is already playing.
type Clip interface {
	Pause()
	Resume()
	Stop()
}

// Synthesizer turns one paragraph into a playing clip. onEnded must be
// invoked exactly once if the clip finishes naturally; a stopped or
// superseded clip must not invoke it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, onEnded func()) (Clip, error)
}

// Answerer resolves a question into an answer to narrate.
type Answerer interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Controller owns at most one active interaction: the audio clip and
// the doubt-window timer belong to the interaction that created them.
// Every asynchronous continuation carries the interaction's context and
// epoch; when either no longer matches, the continuation bails out.
type Controller struct {
	mu          sync.Mutex
	answerer    Answerer
	synth       Synthesizer
	doubtWindow time.Duration
	onState     func(State)

	state      State
	epoch      uint64
	ctx        context.Context
	cancel     context.CancelFunc
	paragraphs []string
	current    int
	clip       Clip
	timer      *time.Timer
	closed     bool
}

// NewController builds an idle controller. onState, when non-nil, is
// invoked on every transition while the controller lock is held; it
// must not call back into the controller.
func NewController(answerer Answerer, synth Synthesizer, doubtWindow time.Duration, onState func(State)) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		answerer:    answerer,
		synth:       synth,
		doubtWindow: doubtWindow,
		onState:     onState,
		state:       StateIdle,
		ctx:         ctx,
		cancel:      cancel,
		current:     -1,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentParagraph is the index of the paragraph playing or most
// recently played, -1 before playback starts.
func (c *Controller) CurrentParagraph() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Paragraphs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.paragraphs))
	copy(out, c.paragraphs)
	return out
}

// Epoch identifies the active interaction.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Ask supersedes any active interaction and fetches an answer for the
// question. Playback of the answer starts at paragraph 0.
func (c *Controller) Ask(question string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ctx, epoch := c.supersedeLocked()
	c.paragraphs = nil
	c.current = -1
	c.setStateLocked(StateThinking)
	c.mu.Unlock()

	go func() {
		answer, err := c.answerer.Ask(ctx, question)

		c.mu.Lock()
		defer c.mu.Unlock()
		if ctx.Err() != nil || epoch != c.epoch {
			return
		}
		if err != nil {
			c.setStateLocked(StateIdle)
			return
		}
		paragraphs := SplitParagraphs(answer)
		if len(paragraphs) == 0 {
			c.setStateLocked(StateIdle)
			return
		}
		c.paragraphs = paragraphs
		c.playLocked(0, ctx, epoch)
	}()
}

// StartListening hands the audio output to the user: the doubt-window
// timer is cancelled and any playing clip paused.
func (c *Controller) StartListening() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	if c.clip != nil {
		c.clip.Pause()
	}
	c.setStateLocked(StateListening)
}

// SubmitTranscript routes the captured transcript: empty input returns
// the controller to idle, anything else becomes a new question.
func (c *Controller) SubmitTranscript(transcript string) {
	if strings.TrimSpace(transcript) == "" {
		c.mu.Lock()
		if !c.closed {
			c.setStateLocked(StateIdle)
		}
		c.mu.Unlock()
		return
	}
	c.Ask(transcript)
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state != StatePlaying {
		return
	}
	if c.clip != nil {
		c.clip.Pause()
	}
	c.setStateLocked(StatePaused)
}

// Resume continues a paused clip; without a live clip it re-synthesizes
// the current paragraph under the active interaction.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.clip != nil && c.current > -1 {
		c.clip.Resume()
		c.setStateLocked(StatePlaying)
		return
	}
	if len(c.paragraphs) == 0 {
		return
	}
	index := c.current
	if index < 0 {
		index = 0
	}
	c.playLocked(index, c.ctx, c.epoch)
}

// Stop supersedes the active interaction and returns to idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.setStateLocked(StateIdle)
}

// Close permanently shuts the controller down.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.closed = true
	c.setStateLocked(StateIdle)
}

// supersedeLocked invalidates the active interaction: its context is
// cancelled, its timer stopped and its clip silenced. Returns the new
// interaction's token.
func (c *Controller) supersedeLocked() (context.Context, uint64) {
	c.cancel()
	c.stopTimerLocked()
	if c.clip != nil {
		c.clip.Stop()
		c.clip = nil
	}
	c.epoch++
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c.ctx, c.epoch
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}

func (c *Controller) playLocked(index int, ctx context.Context, epoch uint64) {
	if index >= len(c.paragraphs) {
		c.setStateLocked(StateIdle)
		return
	}
	c.current = index
	c.setStateLocked(StatePlaying)
	text := c.paragraphs[index]

	go func() {
		clip, err := c.synth.Synthesize(ctx, text, func() {
			c.clipEnded(index, epoch)
		})

		c.mu.Lock()
		defer c.mu.Unlock()
		if ctx.Err() != nil || epoch != c.epoch {
			if clip != nil {
				clip.Stop()
			}
			return
		}
		if err != nil {
			// Failed synthesis counts as an instantly finished
			// paragraph, the sequence must not stall here.
			c.startDoubtWindowLocked(index, ctx, epoch)
			return
		}
		c.clip = clip
		// Synthesis may outlast an interruption that arrived in the
		// meantime; a clip landing in a non-playing state starts paused.
		if c.state != StatePlaying {
			clip.Pause()
		}
	}()
}

func (c *Controller) clipEnded(index int, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.state != StatePlaying {
		return
	}
	c.clip = nil
	c.startDoubtWindowLocked(index, c.ctx, epoch)
}

func (c *Controller) startDoubtWindowLocked(index int, ctx context.Context, epoch uint64) {
	c.setStateLocked(StateWaiting)
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.doubtWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if ctx.Err() != nil || epoch != c.epoch || c.state != StateWaiting {
			return
		}
		c.timer = nil
		c.playLocked(index+1, ctx, epoch)
	})
}
