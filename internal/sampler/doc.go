// Package sampler turns a function of one variable into a display-ready
// [geom.Polyline].
//
// The interval is cut into coarse pieces which are bisected until the
// straight chord is within tolerance of the function at its midpoint. Steep
// pieces are always bisected. Inputs where the function panics, returns a
// non-finite value, leaves the sanity bound or fails the domain predicate
// are localized by bisection and recorded as breaks, so a pole such as the
// one in 1/x is never bridged by a segment.
package sampler
