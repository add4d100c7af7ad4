// Package storage persists headless runs on disk, one directory per run
// holding metadata.json and a per-ball trajectory.csv.
package storage
