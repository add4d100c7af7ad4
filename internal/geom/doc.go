// Package geom holds the world-unit geometry shared by the sampler, the
// physics engine and the renderers.
//
// A [Polyline] is a flat slice of [Vertex] values. Each vertex is either a
// point or a break; consecutive points form straight [Segment]s and a break
// separates two runs that must never be joined:
//
//	pl := geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 1), geom.BreakVertex(), geom.Pt(2, 0)}
//	pl.Segments(func(i int, s geom.Segment) bool { ... })   // visits one segment
//	pl.Runs()                                               // two runs
//
// [Bounds] is the rectangular world owned by the game session.
package geom
