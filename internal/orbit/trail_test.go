package orbit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrail_Bounded(t *testing.T) {
	tr := NewTrail(DefaultTrailCap)

	for i := 1; i <= 300; i++ {
		tr.Push(Point{X: float64(i)})
		if tr.Len() > DefaultTrailCap {
			t.Fatalf("push %d: len %d exceeds cap", i, tr.Len())
		}
	}

	pts := tr.Points()
	require.Len(t, pts, 260)
	assert.Equal(t, 41.0, pts[0].X, "oldest retained sample")
	assert.Equal(t, 300.0, pts[len(pts)-1].X, "newest sample")

	for i := 1; i < len(pts); i++ {
		assert.Equal(t, pts[i-1].X+1, pts[i].X, "order at %d", i)
	}
}

func TestTrail_PartiallyFilled(t *testing.T) {
	tr := NewTrail(5)
	tr.Push(Point{X: 1})
	tr.Push(Point{X: 2})

	assert.Equal(t, []Point{{X: 1}, {X: 2}}, tr.Points())
	assert.Equal(t, 5, tr.Cap())
}

func TestTrail_Clear(t *testing.T) {
	tr := NewTrail(3)
	for i := 0; i < 7; i++ {
		tr.Push(Point{X: float64(i)})
	}
	tr.Clear()

	assert.Zero(t, tr.Len())
	assert.Nil(t, tr.Points())

	tr.Push(Point{X: 9})
	assert.Equal(t, []Point{{X: 9}}, tr.Points())
}

func TestTrail_PointsIsCopy(t *testing.T) {
	tr := NewTrail(3)
	tr.Push(Point{X: 1})

	pts := tr.Points()
	pts[0].X = 99

	assert.Equal(t, 1.0, tr.Points()[0].X)
}

func TestNewTrail_DefaultCap(t *testing.T) {
	assert.Equal(t, DefaultTrailCap, NewTrail(0).Cap())
	assert.Equal(t, DefaultTrailCap, NewTrail(-4).Cap())
}
