package session

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardfan/internal/asset"
	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/motion"
)

type countingCue struct {
	plays  int
	closed bool
}

func (c *countingCue) Play()  { c.plays++ }
func (c *countingCue) Close() { c.closed = true }

type firstRNG struct{}

func (firstRNG) Intn(int) int { return 0 }

var testViewport = layout.Viewport{Width: 800, Height: 600}

func newSession(t *testing.T) (*Session, *countingCue) {
	t.Helper()
	cue := &countingCue{}
	opts := DefaultOptions(testViewport)
	opts.RNG = firstRNG{}
	opts.Cue = cue
	s, err := New(opts)
	require.NoError(t, err)
	return s, cue
}

func settled(t *testing.T) (*Session, *countingCue) {
	t.Helper()
	s, cue := newSession(t)
	_, err := Run(s, &Script{})
	require.NoError(t, err)
	require.True(t, s.Controller.Settled())
	return s, cue
}

func TestNew(t *testing.T) {
	s, _ := newSession(t)

	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 52, s.Deck.Len())
	assert.Equal(t, layout.Bottom, s.Mine())
	assert.Equal(t, motion.DefaultStep, s.Step())

	assert.True(t, s.Revealed(0))
	assert.False(t, s.Revealed(13))

	ref, err := s.Resolve(asset.Refs{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "clubs_1", ref)

	ref, err = s.Resolve(asset.Refs{}, 13)
	require.NoError(t, err)
	assert.Equal(t, asset.BackRef, ref)

	_, err = s.Resolve(asset.Refs{}, 52)
	assert.ErrorIs(t, err, layout.ErrSlotOutOfRange)
}

func TestNew_Errors(t *testing.T) {
	opts := DefaultOptions(testViewport)
	opts.Layout.Turn = 2
	_, err := New(opts)
	assert.ErrorIs(t, err, layout.ErrUnsupportedTurn)

	opts = DefaultOptions(layout.Viewport{})
	_, err = New(opts)
	assert.ErrorIs(t, err, layout.ErrInvalidViewport)

	opts = DefaultOptions(testViewport)
	opts.Springs.Drag.Tension = 100
	_, err = New(opts)
	assert.ErrorIs(t, err, motion.ErrInvalidSpring)
}

func TestRun_Fling(t *testing.T) {
	s, cue := newSession(t)

	traj, err := Run(s, &Script{Drags: []Drag{
		{Slot: 0, DX: 300, Duration: 200 * time.Millisecond, Steps: 10},
	}})
	require.NoError(t, err)
	require.Len(t, traj.Outcomes, 1)

	out := traj.Outcomes[0]
	assert.True(t, out.Dismissed)

	// slot 0 rests at (-245, 220); released 300px right at 1.5px/ms
	assert.InDelta(t, 55+400+200, out.Final.X, 1e-9)
	assert.InDelta(t, 220-40, out.Final.Y, 1e-9)
	assert.InDelta(t, 3+10*1.5, out.Final.Rotation, 1e-9)
	assert.Equal(t, 1.0, out.Final.Scale)

	assert.Equal(t, 1, s.DismissedCount())
	assert.Equal(t, 1, cue.plays)

	require.NotEmpty(t, traj.Frames)
	assert.Equal(t, motion.Dragging, traj.Frames[0].Phase)
	assert.True(t, traj.Frames[len(traj.Frames)-1].Dismissed)
	assert.Equal(t, s.ID, traj.Session)
}

func TestRun_SlowDragReturnsHome(t *testing.T) {
	s, cue := newSession(t)

	traj, err := Run(s, &Script{Drags: []Drag{
		{Slot: 5, DX: 40, DY: -10, Duration: time.Second, Steps: 10},
	}})
	require.NoError(t, err)

	rest, err := layout.New().RestPose(5, testViewport)
	require.NoError(t, err)

	assert.False(t, traj.Outcomes[0].Dismissed)
	assert.Equal(t, rest, traj.Outcomes[0].Final)
	assert.Equal(t, 0, cue.plays)
}

func TestRun_FrameInterval(t *testing.T) {
	s, _ := newSession(t)

	traj, err := Run(s, &Script{
		Every: 100 * time.Millisecond,
		Drags: []Drag{{Slot: 5, DX: 40, Duration: time.Second, Steps: 4}},
	})
	require.NoError(t, err)

	for i := 1; i < len(traj.Frames); i++ {
		assert.GreaterOrEqual(t, traj.Frames[i].At-traj.Frames[i-1].At, 100*time.Millisecond)
	}
}

func TestRun_DismissedSlotRejected(t *testing.T) {
	s, _ := newSession(t)

	_, err := Run(s, &Script{Drags: []Drag{
		{Slot: 3, DX: -300, Duration: 100 * time.Millisecond, Steps: 5},
		{Slot: 3, DX: 10, Duration: 100 * time.Millisecond, Steps: 5},
	}})
	assert.ErrorIs(t, err, ErrInvalidScript)
	assert.True(t, s.Controller.Dismissed(3))
}

func TestPressMoveRelease(t *testing.T) {
	s, cue := settled(t)
	t0 := time.Unix(100, 0)

	// empty table centre
	_, ok, err := s.Press(0, 0, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	// slot 12 is the top card of the bottom fan, resting at (175, 220)
	slot, ok, err := s.Press(175, 220, t0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, slot)

	held, ok := s.Holding()
	assert.True(t, ok)
	assert.Equal(t, 12, held)

	require.NoError(t, s.Move(475, 220, t0.Add(50*time.Millisecond)))
	p, err := s.Controller.Pose(12)
	require.NoError(t, err)
	assert.InDelta(t, 475, p.X, 1e-9)

	require.NoError(t, s.Release(475, 220, t0.Add(50*time.Millisecond)))
	_, ok = s.Holding()
	assert.False(t, ok)
	assert.True(t, s.Controller.Dismissed(12))
	assert.Equal(t, 1, cue.plays)

	s.Tick(5 * time.Second)

	// the flown card no longer catches the pointer
	_, ok, err = s.Press(175, 220, t0.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoveWithoutPress(t *testing.T) {
	s, _ := settled(t)
	before := s.States()

	assert.NoError(t, s.Move(10, 10, time.Unix(1, 0)))
	assert.NoError(t, s.Release(10, 10, time.Unix(1, 0)))
	assert.Equal(t, before, s.States())
}

func TestParseScript(t *testing.T) {
	script, err := ParseScript(strings.NewReader(`
viewport:
  width: 1024
  height: 768
every: 50ms
drags:
  - slot: 12
    dx: 250
    dy: -30
    duration: 150ms
    steps: 6
  - slot: 0
    dx: 20
    duration: 1s
    hold: 100ms
`))
	require.NoError(t, err)

	assert.Equal(t, layout.Viewport{Width: 1024, Height: 768}, script.Viewport)
	assert.Equal(t, 50*time.Millisecond, script.Every)
	require.Len(t, script.Drags, 2)
	assert.Equal(t, Drag{Slot: 12, DX: 250, DY: -30, Duration: 150 * time.Millisecond, Steps: 6}, script.Drags[0])
	assert.Equal(t, 1, script.Drags[1].Steps)
	assert.Equal(t, 100*time.Millisecond, script.Drags[1].Hold)

	_, err = ParseScript(strings.NewReader("drags:\n  - slot: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)

	_, err = ParseScript(strings.NewReader("drags: [\n"))
	assert.Error(t, err)
}

func TestTone(t *testing.T) {
	tone := NewTone()

	assert.NotPanics(t, tone.Play)
	assert.NotPanics(t, tone.Close)

	streamer, err := tone.Streamer()
	require.NoError(t, err)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := streamer.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, ToneRate.N(ToneDuration), total)
}
