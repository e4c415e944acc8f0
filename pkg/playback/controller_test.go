package playback

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubAnswerer struct {
	answers map[string]string
	err     error
	calls   int32
}

func (a *stubAnswerer) Ask(ctx context.Context, question string) (string, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.err != nil {
		return "", a.err
	}
	return a.answers[question], nil
}

func (a *stubAnswerer) callCount() int {
	return int(atomic.LoadInt32(&a.calls))
}

type fakeClip struct {
	onEnded func()
	paused  int32
	resumed int32
	stopped int32
}

func (c *fakeClip) Pause()  { atomic.AddInt32(&c.paused, 1) }
func (c *fakeClip) Resume() { atomic.AddInt32(&c.resumed, 1) }
func (c *fakeClip) Stop()   { atomic.AddInt32(&c.stopped, 1) }

// finish simulates the audio reaching its natural end.
func (c *fakeClip) finish() { c.onEnded() }

type fakeSynth struct {
	mu      sync.Mutex
	texts   []string
	failOn  map[int]bool // call index (0-based) -> fail
	created chan *fakeClip
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{
		failOn:  map[int]bool{},
		created: make(chan *fakeClip, 16),
	}
}

func (s *fakeSynth) Synthesize(ctx context.Context, text string, onEnded func()) (Clip, error) {
	s.mu.Lock()
	index := len(s.texts)
	s.texts = append(s.texts, text)
	fail := s.failOn[index]
	s.mu.Unlock()

	if fail {
		return nil, errors.New("synthesis failed")
	}
	clip := &fakeClip{onEnded: onEnded}
	s.created <- clip
	return clip, nil
}

func (s *fakeSynth) synthesized() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

func waitTrue(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func waitState(t *testing.T, states <-chan State, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", want)
		}
	}
}

func newTestController(t *testing.T, answers map[string]string, doubtWindow time.Duration) (*Controller, *stubAnswerer, *fakeSynth, chan State) {
	t.Helper()
	answerer := &stubAnswerer{answers: answers}
	synth := newFakeSynth()
	states := make(chan State, 64)
	c := NewController(answerer, synth, doubtWindow, func(s State) { states <- s })
	t.Cleanup(c.Close)
	return c, answerer, synth, states
}

func TestAskPlaysParagraphsThroughDoubtWindow(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"Summarize": "Para one.\n\nPara two.",
	}, 20*time.Millisecond)

	c.Ask("Summarize")
	waitState(t, states, StateThinking)
	waitState(t, states, StatePlaying)

	clip := <-synth.created
	if got := c.CurrentParagraph(); got != 0 {
		t.Errorf("CurrentParagraph = %d, want 0", got)
	}

	clip.finish()
	waitState(t, states, StateWaiting)

	// Doubt window elapses without interruption, next paragraph plays.
	waitState(t, states, StatePlaying)
	clip2 := <-synth.created
	if got := c.CurrentParagraph(); got != 1 {
		t.Errorf("CurrentParagraph = %d, want 1", got)
	}

	clip2.finish()
	waitState(t, states, StateWaiting)
	waitState(t, states, StateIdle)

	want := []string{"Para one.", "Para two."}
	got := synth.synthesized()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("synthesized = %#v, want %#v", got, want)
	}
}

func TestNewAskCancelsPendingDoubtWindow(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"first":  "Old first.\n\nOld second.",
		"second": "New answer.",
	}, 40*time.Millisecond)

	c.Ask("first")
	waitState(t, states, StatePlaying)
	clip := <-synth.created
	clip.finish()
	waitState(t, states, StateWaiting)

	oldEpoch := c.Epoch()
	c.Ask("second")
	if c.Epoch() == oldEpoch {
		t.Fatal("new ask must supersede the previous interaction")
	}
	waitState(t, states, StatePlaying)
	<-synth.created

	// Let the superseded countdown fire; its advance must be a no-op.
	time.Sleep(100 * time.Millisecond)

	if got := c.CurrentParagraph(); got != 0 {
		t.Errorf("CurrentParagraph = %d, want 0 (new answer)", got)
	}
	for _, text := range synth.synthesized() {
		if text == "Old second." {
			t.Error("superseded interaction advanced to its next paragraph")
		}
	}
	if got := c.State(); got != StatePlaying {
		t.Errorf("State = %q, want %q", got, StatePlaying)
	}
}

func TestStartListeningCancelsCountdownAndPausesAudio(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"q": "Only paragraph.\n\nAnother.",
	}, 30*time.Millisecond)

	c.Ask("q")
	waitState(t, states, StatePlaying)
	clip := <-synth.created

	c.StartListening()
	waitState(t, states, StateListening)
	waitTrue(t, func() bool { return atomic.LoadInt32(&clip.paused) > 0 },
		"active clip should be paused on interruption")

	// No countdown may advance playback while listening.
	time.Sleep(80 * time.Millisecond)
	if got := c.State(); got != StateListening {
		t.Errorf("State = %q, want %q", got, StateListening)
	}
	if got := len(synth.synthesized()); got != 1 {
		t.Errorf("synthesized %d paragraphs, want 1", got)
	}
}

func TestEmptyTranscriptRoutesToIdle(t *testing.T) {
	c, answerer, _, states := newTestController(t, map[string]string{}, 30*time.Millisecond)

	c.StartListening()
	waitState(t, states, StateListening)

	c.SubmitTranscript("   ")
	waitState(t, states, StateIdle)
	if got := answerer.callCount(); got != 0 {
		t.Errorf("answerer called %d times, want 0", got)
	}
}

func TestTranscriptBecomesQuestion(t *testing.T) {
	c, answerer, synth, states := newTestController(t, map[string]string{
		"what is this": "An answer.",
	}, 30*time.Millisecond)

	c.StartListening()
	waitState(t, states, StateListening)

	c.SubmitTranscript("what is this")
	waitState(t, states, StateThinking)
	waitState(t, states, StatePlaying)
	<-synth.created

	if got := answerer.callCount(); got != 1 {
		t.Errorf("answerer called %d times, want 1", got)
	}
}

func TestSynthesisFailureDoesNotStall(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"q": "Broken paragraph.\n\nHealthy paragraph.",
	}, 20*time.Millisecond)
	synth.failOn[0] = true

	c.Ask("q")
	waitState(t, states, StatePlaying)
	// Synthesis of paragraph 0 fails: immediate doubt window, then
	// advance to paragraph 1.
	waitState(t, states, StateWaiting)
	waitState(t, states, StatePlaying)
	<-synth.created

	if got := c.CurrentParagraph(); got != 1 {
		t.Errorf("CurrentParagraph = %d, want 1", got)
	}
}

func TestPauseAndResumeWithLiveClip(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"q": "A paragraph.",
	}, 30*time.Millisecond)

	c.Ask("q")
	waitState(t, states, StatePlaying)
	clip := <-synth.created

	c.Pause()
	waitState(t, states, StatePaused)
	waitTrue(t, func() bool { return atomic.LoadInt32(&clip.paused) > 0 },
		"clip should be paused")

	c.Resume()
	waitState(t, states, StatePlaying)
	waitTrue(t, func() bool { return atomic.LoadInt32(&clip.resumed) > 0 },
		"clip should be resumed")
}

func TestResumeWithoutClipRestartsSynthesis(t *testing.T) {
	c, _, synth, states := newTestController(t, map[string]string{
		"q": "A paragraph.",
	}, 30*time.Millisecond)

	c.Ask("q")
	waitState(t, states, StatePlaying)
	<-synth.created

	// Stop releases the audio handle but keeps the answer around.
	c.Stop()
	waitState(t, states, StateIdle)

	c.Resume()
	waitState(t, states, StatePlaying)
	<-synth.created

	if got := len(synth.synthesized()); got != 2 {
		t.Errorf("synthesized %d times, want 2 (restart of current paragraph)", got)
	}
}

func TestAnswerFailureDegradesToIdle(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("upstream down")}
	synth := newFakeSynth()
	states := make(chan State, 64)
	c := NewController(answerer, synth, 30*time.Millisecond, func(s State) { states <- s })
	defer c.Close()

	c.Ask("q")
	waitState(t, states, StateThinking)
	waitState(t, states, StateIdle)

	if got := len(synth.synthesized()); got != 0 {
		t.Errorf("synthesized %d times, want 0", got)
	}
}
