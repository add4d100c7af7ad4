// Package physics advances balls under gravity and slides them along
// sampled curves.
//
// Each [Ball] is either [Free], [OnSurface] or [OutOfBounds]. A ball is on a
// surface when the closest point of some curve segment lies within its
// radius plus a small slop; it is then snapped to rest exactly on the
// segment, loses its normal velocity and accelerates along the tangent:
//
//	eng := physics.NewEngine()
//	stats := eng.Advance(balls, curves, bounds, 1.0/60)
//
// There is no bounce and no rotation. Once a ball leaves the world bounds it
// stays [OutOfBounds].
//
// [Engine] implements [Tunable] for runtime parameter adjustment.
package physics
