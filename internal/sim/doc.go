// Package sim runs game sessions without a display.
//
// A [Runner] spawns balls on a fixed schedule, advances the session by a
// constant dt and records a [Frame] per tick for metrics, observers and
// storage. An [Ensemble] runs several independent sessions in parallel.
package sim
