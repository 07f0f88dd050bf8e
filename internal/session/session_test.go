package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"everpeak/internal/brief"
	"everpeak/internal/llm_client"
	"everpeak/internal/mission"
	"everpeak/internal/recommend"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gateRecommender blocks every call until release is closed (when set).
type gateRecommender struct {
	mu      sync.Mutex
	reqs    []brief.Request
	release chan struct{}
	out     recommend.Outcome
}

func (g *gateRecommender) Recommend(_ context.Context, req brief.Request) recommend.Outcome {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	release := g.release
	g.mu.Unlock()
	if release != nil {
		<-release
	}
	return g.out
}

func (g *gateRecommender) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reqs)
}

type generatorFunc func(ctx context.Context, prompt, model string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(_ string, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, Name(s))
	}
	return out
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("attempt did not finish")
	}
}

func fillArctic(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetType(mission.Arctic))
	_, err := s.SetTemperature(-35)
	require.NoError(t, err)
	_, err = s.SetDuration(48)
	require.NoError(t, err)
	require.NoError(t, s.SetEquipment("2 drones, 1 radio"))
}

func TestOpenStartsEditingWithDefaults(t *testing.T) {
	o := New(&gateRecommender{out: recommend.Success{Text: "ok"}})
	s := o.Open()

	st, ok := s.State().(Editing)
	require.True(t, ok)
	assert.Equal(t, mission.Defaults(), st.Params)
	assert.Len(t, s.ID(), 8)
	assert.True(t, o.IsOpen())
	assert.False(t, s.CanSubmit())
}

func TestReopenDiscardsParameters(t *testing.T) {
	o := New(&gateRecommender{out: recommend.Success{Text: "ok"}})
	first := o.Open()
	fillArctic(t, first)

	o.Close()
	assert.True(t, first.Closed())
	assert.False(t, o.IsOpen())

	second := o.Open()
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, mission.Defaults(), second.State().Parameters())
}

func TestOpenClosesPreviousSession(t *testing.T) {
	o := New(&gateRecommender{out: recommend.Success{Text: "ok"}})
	first := o.Open()
	second := o.Open()

	assert.True(t, first.Closed())
	cur, ok := o.Current()
	require.True(t, ok)
	assert.Same(t, second, cur)
}

func TestSubmitBlockedWithoutEquipment(t *testing.T) {
	for _, equipment := range []string{"", "   ", "\n\t"} {
		t.Run(fmt.Sprintf("%q", equipment), func(t *testing.T) {
			rec := &gateRecommender{out: recommend.Success{Text: "ok"}}
			s := New(rec).Open()
			require.NoError(t, s.SetType(mission.Rescue))
			require.NoError(t, s.SetEquipment(equipment))

			done, err := s.Submit(context.Background())
			require.ErrorIs(t, err, ErrValidationBlocked)
			assert.Nil(t, done)
			assert.IsType(t, Editing{}, s.State())
			assert.Equal(t, 0, rec.calls())
		})
	}
}

func TestSecondSubmitWhileSubmittingIsNoop(t *testing.T) {
	rec := &gateRecommender{release: make(chan struct{}), out: recommend.Success{Text: "ok"}}
	obs := &recorder{}
	s := New(rec, WithObserver(obs.observe)).Open()
	fillArctic(t, s)

	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	before := obs.len()

	_, err = s.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitUnavailable)
	assert.Equal(t, before, obs.len())
	assert.False(t, s.CanSubmit())

	require.ErrorIs(t, s.SetEquipment("other"), ErrNotEditing)
	require.ErrorIs(t, s.Retry(), ErrNotResolved)

	close(rec.release)
	waitDone(t, done)
	assert.Equal(t, 1, rec.calls())
	assert.IsType(t, Resolved{}, s.State())
}

func TestRetryKeepsParametersAndDropsOutcome(t *testing.T) {
	outcomes := []recommend.Outcome{
		recommend.Success{Text: "Polaris x2"},
		recommend.Failure{Kind: recommend.EmptyResponse, Message: "nothing"},
	}
	for _, out := range outcomes {
		t.Run(recommend.Describe(out), func(t *testing.T) {
			s := New(&gateRecommender{out: out}).Open()
			fillArctic(t, s)
			want := s.State().Parameters()

			done, err := s.Submit(context.Background())
			require.NoError(t, err)
			waitDone(t, done)

			r, ok := s.State().(Resolved)
			require.True(t, ok)
			assert.Equal(t, out, r.Outcome)

			require.NoError(t, s.Retry())
			ed, ok := s.State().(Editing)
			require.True(t, ok)
			assert.Equal(t, want, ed.Params)
			assert.True(t, s.CanSubmit())
		})
	}
}

func TestCloseDuringSubmittingDiscardsLateOutcome(t *testing.T) {
	rec := &gateRecommender{release: make(chan struct{}), out: recommend.Success{Text: "late"}}
	obs := &recorder{}
	o := New(rec, WithObserver(obs.observe))
	s := o.Open()
	fillArctic(t, s)

	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	o.Close()
	before := obs.len()
	stateAtClose := s.State()

	close(rec.release)
	waitDone(t, done)

	assert.True(t, s.Closed())
	assert.False(t, o.IsOpen())
	assert.Equal(t, before, obs.len())
	assert.Equal(t, stateAtClose, s.State())
	assert.IsType(t, Submitting{}, s.State())
	assert.Empty(t, s.History())

	_, err = s.Submit(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Retry(), ErrClosed)
}

func TestLateOutcomeDoesNotTouchNextSession(t *testing.T) {
	rec := &gateRecommender{release: make(chan struct{}), out: recommend.Success{Text: "late"}}
	o := New(rec)
	first := o.Open()
	fillArctic(t, first)
	done, err := first.Submit(context.Background())
	require.NoError(t, err)

	second := o.Open()
	close(rec.release)
	waitDone(t, done)

	assert.Equal(t, Editing{Params: mission.Defaults()}, second.State())
}

func TestConfirmTerminatesSession(t *testing.T) {
	o := New(&gateRecommender{out: recommend.Success{Text: "ok"}})
	s := o.Open()
	require.ErrorIs(t, s.Confirm(), ErrNotResolved)

	fillArctic(t, s)
	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	waitDone(t, done)

	require.NoError(t, s.Confirm())
	assert.True(t, s.Closed())
	assert.False(t, o.IsOpen())
	require.ErrorIs(t, s.Confirm(), ErrClosed)

	next := o.Open()
	assert.Equal(t, mission.Defaults(), next.State().Parameters())
}

func TestObserverSeesTransitionsInOrder(t *testing.T) {
	obs := &recorder{}
	s := New(&gateRecommender{out: recommend.Success{Text: "ok"}}, WithObserver(obs.observe)).Open()
	require.NoError(t, s.SetEquipment("1 radio"))

	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	waitDone(t, done)
	require.NoError(t, s.Retry())

	assert.Equal(t, []string{"EDITING", "SUBMITTING", "RESOLVED", "EDITING"}, obs.names())
}

func TestHistoryRecordsAttempts(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * 250 * time.Millisecond)
	}

	rec := &gateRecommender{out: recommend.Failure{Kind: recommend.TransportFailure, Message: "down"}}
	s := New(rec, withClock(clock)).Open()
	require.NoError(t, s.SetEquipment("1 radio"))

	for i := 0; i < 2; i++ {
		done, err := s.Submit(context.Background())
		require.NoError(t, err)
		waitDone(t, done)
		require.NoError(t, s.Retry())
	}

	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, 1, h[0].Attempt)
	assert.Equal(t, 2, h[1].Attempt)
	assert.Equal(t, int64(250), h[0].DurationMs)
	assert.False(t, h[1].Succeeded)
	assert.Equal(t, string(recommend.TransportFailure), h[1].FailureKind)
	assert.Equal(t, s.ID(), h[0].SessionID)
}

func TestScenarioArcticSuccess(t *testing.T) {
	var gotBrief string
	gen := generatorFunc(func(_ context.Context, prompt, _ string) (string, error) {
		gotBrief = prompt
		return "[RECOMMENDED CONFIGURATION]: Polaris cold-rated unit x2", nil
	})
	s := New(recommend.NewClient(gen, "", nil)).Open()
	fillArctic(t, s)

	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	waitDone(t, done)

	assert.Contains(t, gotBrief, "temperature: -35")
	assert.Contains(t, gotBrief, "MANDATORY PRIMARY UNIT")
	r, ok := s.State().(Resolved)
	require.True(t, ok)
	success, ok := r.Outcome.(recommend.Success)
	require.True(t, ok)
	assert.Contains(t, success.Text, "cold-rated unit x2")
}

func TestScenarioArcticTimeoutThenRetry(t *testing.T) {
	gen := generatorFunc(func(context.Context, string, string) (string, error) {
		return "", fmt.Errorf("%w: Post \"https://example\": net/http: request canceled (Client.Timeout exceeded)", llm_client.ErrTransport)
	})
	s := New(recommend.NewClient(gen, "", nil)).Open()
	fillArctic(t, s)

	done, err := s.Submit(context.Background())
	require.NoError(t, err)
	waitDone(t, done)

	r, ok := s.State().(Resolved)
	require.True(t, ok)
	f, ok := r.Outcome.(recommend.Failure)
	require.True(t, ok)
	assert.Equal(t, recommend.TransportFailure, f.Kind)
	assert.NotEmpty(t, f.Message)

	require.NoError(t, s.Retry())
	ed, ok := s.State().(Editing)
	require.True(t, ok)
	assert.Equal(t, -35, ed.Params.TemperatureC)
}
