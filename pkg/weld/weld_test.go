package weld

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
)

func square() []geom.Segment {
	return []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(1, 0, 0), geom.P(1, 1, 0)),
		geom.Seg(geom.P(1, 1, 0), geom.P(0, 1, 0)),
		geom.Seg(geom.P(0, 1, 0), geom.P(0, 0, 0)),
	}
}

func TestWeldSquare(t *testing.T) {
	res, err := Weld(square())
	require.NoError(t, err)

	assert.Len(t, res.Vertices, 4)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, res.Pairs)
	assert.Empty(t, res.Degenerate)
	assert.Equal(t, DefaultTolerance, res.Tolerance)
}

func TestWeldEmpty(t *testing.T) {
	res, err := Weld(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Vertices)
	assert.Empty(t, res.Pairs)
}

func TestWeldNearCoincident(t *testing.T) {
	segs := []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(1.0004, 0.0004, -0.0004), geom.P(2, 0, 0)),
	}
	res, err := Weld(segs)
	require.NoError(t, err)

	assert.Len(t, res.Vertices, 3)
	assert.Equal(t, [2]int{1, 2}, res.Pairs[1])
	assert.Equal(t, geom.P(1, 0, 0), res.Vertices[1], "first occurrence is kept")
}

func TestWeldAxisWise(t *testing.T) {
	// Euclidean distance is ~1.56e-3 but every axis is under 1e-3.
	segs := []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(5, 0, 0)),
		geom.Seg(geom.P(0.0009, 0.0009, 0.0009), geom.P(0, 5, 0)),
	}
	res, err := Weld(segs)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Pairs[1][0])

	// Just past the tolerance on a single axis does not weld.
	segs[1].Start = geom.P(0.0011, 0, 0)
	res, err = Weld(segs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pairs[1][0])
}

func TestWeldFirstMatchWins(t *testing.T) {
	// The third point is near both of the first two; it joins vertex 0.
	segs := []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(0.8, 0, 0)),
		geom.Seg(geom.P(0.4, 0, 0), geom.P(9, 9, 9)),
	}
	res, err := Weld(segs, WithTolerance(0.5))
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 1}, res.Pairs[0])
	assert.Equal(t, 0, res.Pairs[1][0])
}

func TestWeldDegenerate(t *testing.T) {
	segs := []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(5, 5, 5), geom.P(5, 5, 5.0001)),
	}
	res, err := Weld(segs)
	require.NoError(t, err)

	assert.Len(t, res.Vertices, 3)
	assert.Equal(t, []int{1}, res.Degenerate)
	assert.True(t, res.IsDegenerate(1))
	assert.False(t, res.IsDegenerate(0))
}

func TestWeldIdempotent(t *testing.T) {
	segs := append(square(),
		geom.Seg(geom.P(0.0002, 0, 0), geom.P(0.5, 0.5, 0)),
		geom.Seg(geom.P(0.5, 0.5, 0.0001), geom.P(1, 1.0003, 0)),
	)
	first, err := Weld(segs)
	require.NoError(t, err)

	again, idx, err := WeldPoints(first.Vertices)
	require.NoError(t, err)
	assert.Len(t, again, len(first.Vertices))
	for i := range idx {
		assert.Equal(t, i, idx[i])
	}

	// Feeding vertices back as zero-length segments gives the same count.
	var zero []geom.Segment
	for _, v := range first.Vertices {
		zero = append(zero, geom.Seg(v, v))
	}
	res, err := Weld(zero)
	require.NoError(t, err)
	assert.Len(t, res.Vertices, len(first.Vertices))
}

func TestWeldInvalid(t *testing.T) {
	_, err := Weld(square(), WithTolerance(0))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTolerance))

	_, err = Weld(square(), WithTolerance(-1))
	assert.Error(t, err)

	bad := []geom.Segment{geom.Seg(geom.P(math.NaN(), 0, 0), geom.P(1, 0, 0))}
	_, err = Weld(bad)
	assert.True(t, errors.IsInvalid(err))

	_, _, err = WeldPoints([]geom.Point{geom.P(0, math.Inf(1), 0)})
	assert.Error(t, err)
}
