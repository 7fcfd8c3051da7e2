package traverse

import (
	"github.com/matzehuels/linegraph/pkg/graph"
)

// Result holds the outcome of a breadth-first traversal from Start.
type Result struct {
	Start int

	// Order lists vertices in dequeue order.
	Order []int

	// Depth is the hop distance from Start, -1 for unreached vertices.
	Depth []int

	// Parent is the predecessor on the BFS tree, -1 for Start and for
	// unreached vertices.
	Parent []int
}

// Reached reports whether v was discovered by the traversal.
func (r *Result) Reached(v int) bool {
	return v >= 0 && v < len(r.Depth) && r.Depth[v] >= 0
}

// PathTo rebuilds the path from Start to v using parent links.
// It returns an empty Path when v was not reached.
func (r *Result) PathTo(v int) Path {
	if !r.Reached(v) {
		return Path{}
	}
	p := make(Path, r.Depth[v]+1)
	for i := len(p) - 1; i >= 0; i-- {
		p[i] = v
		v = r.Parent[v]
	}
	return p
}

// walker holds mutable BFS state for a single traversal.
type walker struct {
	graph  *graph.Graph
	queue  []int
	target int
	res    *Result
}

func newWalker(g *graph.Graph, start, target int) *walker {
	n := g.VertexCount()
	w := &walker{
		graph:  g,
		queue:  make([]int, 0, n),
		target: target,
		res: &Result{
			Start:  start,
			Order:  make([]int, 0, n),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
		w.res.Parent[i] = -1
	}
	w.enqueue(start, 0, -1)
	return w
}

// enqueue marks v discovered at depth d with the given parent.
func (w *walker) enqueue(v, d, parent int) {
	w.res.Depth[v] = d
	w.res.Parent[v] = parent
	w.queue = append(w.queue, v)
}

func (w *walker) dequeue() int {
	v := w.queue[0]
	w.queue = w.queue[1:]
	w.res.Order = append(w.res.Order, v)
	return v
}

// loop drains the queue. It returns early once the target is dequeued.
func (w *walker) loop() {
	for len(w.queue) > 0 {
		v := w.dequeue()
		if v == w.target {
			return
		}
		w.enqueueNeighbors(v)
	}
}

func (w *walker) enqueueNeighbors(v int) {
	next := w.res.Depth[v] + 1
	for _, nbr := range w.graph.Neighbors(v) {
		if w.res.Depth[nbr] < 0 {
			w.enqueue(nbr, next, v)
		}
	}
}

// BFS traverses every vertex reachable from start.
//
// Parent links are set at first discovery, so for any reached t,
// Result.PathTo(t) equals ShortestPath(g, start, t).
func BFS(g *graph.Graph, start int) (*Result, error) {
	if err := checkIndex(g, "start", start); err != nil {
		return nil, err
	}
	w := newWalker(g, start, -1)
	w.loop()
	return w.res, nil
}

// ShortestPath returns a minimum hop-count path from start to end.
//
// The search stops as soon as end is dequeued. If end is unreachable the
// returned Path is empty and the error is nil. If start == end the path is
// the single vertex.
func ShortestPath(g *graph.Graph, start, end int) (Path, error) {
	if err := checkIndex(g, "start", start); err != nil {
		return nil, err
	}
	if err := checkIndex(g, "end", end); err != nil {
		return nil, err
	}
	w := newWalker(g, start, end)
	w.loop()
	return w.res.PathTo(end), nil
}
