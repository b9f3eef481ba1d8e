// Copyright © 2018 One Concern

// Package jobs runs units of work on a bounded pool of goroutines and
// dispatches named events to handlers.
//
// A Job goes through the states Pending, Running, then one of Succeeded,
// Failed or Cancelled. Jobs are either run directly or submitted to a
// Scheduler, which starts them in FIFO order with at most MaxWorkers jobs
// running at the same time.
//
// An EventQueue delivers posted events to their handlers, one at a time, on a
// dedicated goroutine.
package jobs
