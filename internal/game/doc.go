// Package game ties the expression, sampling, physics and collection
// packages into a playable session.
//
// A [Session] is driven by one external loop:
//
//	s, _ := game.New(cfg)
//	_ = s.Submit("y = -0.5x - 2")
//	s.SpawnBall()
//	for !s.Won() {
//	    s.Advance(cfg.Physics.Dt)
//	}
//
// Sessions are not safe for concurrent use.
package game
