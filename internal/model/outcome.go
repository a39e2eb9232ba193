// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Outcome of a single candidate run.
//
// Outcomes are built only through Completed, TimedOut and Failed, so exactly
// one variant is populated: Duration is meaningful only for StatusCompleted
// and Reason only for StatusFailed.
package model

import (
	"fmt"
	"time"
)

// Status classifies how a candidate run ended.
type Status int

const (
	// StatusUnknown is the zero value and never produced by the constructors.
	StatusUnknown Status = iota
	// StatusCompleted means the run step exited with code 0 within the deadline.
	StatusCompleted
	// StatusTimedOut means a build or run step exceeded the deadline.
	StatusTimedOut
	// StatusFailed covers launch failures, non-zero exits and build failures.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusTimedOut:
		return "timed_out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of running one Candidate.
type Outcome struct {
	Index    int
	Name     string
	Label    string
	Status   Status
	Duration time.Duration
	Reason   string
}

// Completed builds a successful Outcome. Negative durations are clamped to zero.
func Completed(c Candidate, d time.Duration) Outcome {
	if d < 0 {
		d = 0
	}
	return Outcome{Index: c.Index, Name: c.Name, Label: c.Label(), Status: StatusCompleted, Duration: d}
}

// TimedOut builds an Outcome for a candidate that exceeded the deadline.
func TimedOut(c Candidate) Outcome {
	return Outcome{Index: c.Index, Name: c.Name, Label: c.Label(), Status: StatusTimedOut}
}

// Failed builds an Outcome carrying a short diagnostic.
func Failed(c Candidate, reason string) Outcome {
	return Outcome{Index: c.Index, Name: c.Name, Label: c.Label(), Status: StatusFailed, Reason: reason}
}

// Failedf is Failed with fmt.Sprintf formatting.
func Failedf(c Candidate, format string, args ...any) Outcome {
	return Failed(c, fmt.Sprintf(format, args...))
}

// Millis returns the duration in fractional milliseconds.
func (o Outcome) Millis() float64 {
	return float64(o.Duration) / float64(time.Millisecond)
}
