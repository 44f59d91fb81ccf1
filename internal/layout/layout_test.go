package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vp = Viewport{Width: 1280, Height: 800}

func TestRestPose_BottomSlotZero(t *testing.T) {
	p, err := New().RestPose(0, vp)
	require.NoError(t, err)

	assert.Equal(t, Pose{X: -7 * 35, Y: 800/2 - ScreenMargin, Rotation: -7 * 5, Scale: 1}, p)
}

func TestRestPose_Seats(t *testing.T) {
	l := New()

	// position 7 of each seat is the fan centre
	tests := []struct {
		slot int
		want Pose
	}{
		{7, Pose{X: 0, Y: 320, Rotation: 0, Scale: 1}},
		{13 + 7, Pose{X: 640, Y: 0, Rotation: -90, Scale: 1}},
		{26 + 7, Pose{X: 0, Y: -400, Rotation: -180, Scale: 1}},
		{39 + 7, Pose{X: -640, Y: 0, Rotation: -90, Scale: 1}},
		{13, Pose{X: 640, Y: -7 * 15, Rotation: -(-7*5 + 90), Scale: 1}},
		{26, Pose{X: -7 * 25, Y: -400, Rotation: -(-7*5 + 180), Scale: 1}},
		{51, Pose{X: -640, Y: 5 * 15, Rotation: 5*5 - 90, Scale: 1}},
	}

	for _, tt := range tests {
		p, err := l.RestPose(tt.slot, vp)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p, "slot %d", tt.slot)
	}
}

func TestRestPose_Deterministic(t *testing.T) {
	l := New()
	for slot := 0; slot < l.Slots(); slot++ {
		a, err := l.RestPose(slot, vp)
		require.NoError(t, err)
		b, err := l.RestPose(slot, vp)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestRestPose_LinearWithinSeat(t *testing.T) {
	l := New()
	poses, err := l.RestPoses(vp)
	require.NoError(t, err)

	for seat := 0; seat < l.Seats; seat++ {
		first := poses[seat*l.PerSeat]
		second := poses[seat*l.PerSeat+1]
		dx := second.X - first.X
		dy := second.Y - first.Y
		dr := second.Rotation - first.Rotation

		for pos := 1; pos < l.PerSeat; pos++ {
			prev := poses[seat*l.PerSeat+pos-1]
			cur := poses[seat*l.PerSeat+pos]
			assert.InDelta(t, dx, cur.X-prev.X, 1e-9, "seat %d pos %d", seat, pos)
			assert.InDelta(t, dy, cur.Y-prev.Y, 1e-9, "seat %d pos %d", seat, pos)
			assert.InDelta(t, dr, cur.Rotation-prev.Rotation, 1e-9, "seat %d pos %d", seat, pos)
			assert.Equal(t, 1.0, cur.Scale)
		}
	}
}

func TestRestPose_OutOfRange(t *testing.T) {
	l := New()

	_, err := l.RestPose(-1, vp)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)

	_, err = l.RestPose(52, vp)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}

func TestRestPose_UnsupportedTurn(t *testing.T) {
	l := New()
	for turn := 1; turn <= 3; turn++ {
		l.Turn = turn
		_, err := l.RestPose(0, vp)
		assert.ErrorIs(t, err, ErrUnsupportedTurn)
	}
}

func TestRestPose_FollowsViewport(t *testing.T) {
	l := New()
	small, err := l.RestPose(0, Viewport{Width: 600, Height: 400})
	require.NoError(t, err)
	large, err := l.RestPose(0, Viewport{Width: 1200, Height: 1000})
	require.NoError(t, err)

	assert.Equal(t, small.X, large.X)
	assert.Equal(t, 400.0/2-ScreenMargin, small.Y)
	assert.Equal(t, 1000.0/2-ScreenMargin, large.Y)
}

func TestDiffFromCenter(t *testing.T) {
	l := New()
	assert.Equal(t, -7, l.DiffFromCenter(0))
	assert.Equal(t, 0, l.DiffFromCenter(7))
	assert.Equal(t, 5, l.DiffFromCenter(12))
}

func TestViewport_Validate(t *testing.T) {
	assert.NoError(t, vp.Validate())
	assert.ErrorIs(t, Viewport{Width: 0, Height: 10}.Validate(), ErrInvalidViewport)
	assert.ErrorIs(t, Viewport{Width: 10, Height: -1}.Validate(), ErrInvalidViewport)
}

func TestSeat_String(t *testing.T) {
	assert.Equal(t, "bottom", Bottom.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "seat(7)", Seat(7).String())
}
