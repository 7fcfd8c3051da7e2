// Package weld merges near-coincident segment endpoints into a canonical,
// densely indexed vertex set.
//
// Two points weld when they differ by less than the tolerance on each of
// X, Y and Z independently (see [geom.Near]). Candidates are scanned in
// insertion order and the first match wins, so vertex indices depend only on
// the order of the input segments.
//
// # Usage
//
//	res, err := weld.Weld(segments, weld.WithTolerance(1e-3))
//	if err != nil {
//	    return err
//	}
//	for i, pair := range res.Pairs {
//	    fmt.Println(i, pair[0], pair[1])
//	}
package weld

import (
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
)

// DefaultTolerance is the per-axis distance below which two points weld.
const DefaultTolerance = 1e-3

// Option configures a weld run.
type Option func(*options)

type options struct {
	tolerance float64
}

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

func resolve(opts []Option) (options, error) {
	o := options{tolerance: DefaultTolerance}
	for _, fn := range opts {
		fn(&o)
	}
	if err := errors.ValidateTolerance(o.tolerance); err != nil {
		return o, err
	}
	return o, nil
}

// Result is the output of Weld.
type Result struct {
	// Vertices holds the unique points in first-seen order.
	Vertices []geom.Point

	// Pairs maps each input segment to its endpoint vertex indices.
	// It always has one entry per input segment.
	Pairs [][2]int

	// Degenerate lists the input segments whose endpoints welded to the
	// same vertex. Those segments contribute no edge.
	Degenerate []int

	// Tolerance is the tolerance that was applied.
	Tolerance float64
}

// IsDegenerate reports whether segment i collapsed to a single vertex.
func (r *Result) IsDegenerate(i int) bool {
	p := r.Pairs[i]
	return p[0] == p[1]
}

// Weld deduplicates the endpoints of segments.
//
// Endpoints are processed segment by segment, start before end. An empty
// segment list produces an empty Result, not an error.
func Weld(segments []geom.Segment, opts ...Option) (*Result, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Pairs:     make([][2]int, len(segments)),
		Tolerance: o.tolerance,
	}
	for i, s := range segments {
		if err := validatePoint(s.Start); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d start", i)
		}
		if err := validatePoint(s.End); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d end", i)
		}

		a := res.intern(s.Start, o.tolerance)
		b := res.intern(s.End, o.tolerance)
		res.Pairs[i] = [2]int{a, b}
		if a == b {
			res.Degenerate = append(res.Degenerate, i)
		}
	}
	return res, nil
}

// WeldPoints deduplicates a flat point list with the same rules as Weld.
// It returns the unique points and, for every input point, its index into
// that list.
func WeldPoints(points []geom.Point, opts ...Option) ([]geom.Point, []int, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{Tolerance: o.tolerance}
	index := make([]int, len(points))
	for i, p := range points {
		if err := validatePoint(p); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %d", i)
		}
		index[i] = res.intern(p, o.tolerance)
	}
	return res.Vertices, index, nil
}

// intern returns the index of the first vertex near p, appending p when
// none is found. When p is near several vertices it joins the oldest.
func (r *Result) intern(p geom.Point, tol float64) int {
	for i, v := range r.Vertices {
		if geom.Near(v, p, tol) {
			return i
		}
	}
	r.Vertices = append(r.Vertices, p)
	return len(r.Vertices) - 1
}

func validatePoint(p geom.Point) error {
	for _, c := range [...]float64{p.X, p.Y, p.Z} {
		if err := errors.ValidateCoordinate(c); err != nil {
			return err
		}
	}
	return nil
}
