// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package poller follows a deployment task until it terminates.
//
// The poller is a small state machine. It starts Running and asks for the
// task status once per interval; the next request is scheduled only after
// the previous one has resolved, so requests never overlap. Done, Failed,
// Stopped and Aborted are terminal: once reached, no further request is made
// and the state never changes again.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localarb/cli/internal/backend"
	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/logging"
)

// State is the poller state.
type State int

const (
	Running State = iota
	// Done: the task completed. A CMS error inside the result does not change this.
	Done
	// Failed: the task reported "failed".
	Failed
	// Stopped: the status endpoint answered with a non-2xx status.
	Stopped
	// Aborted: transport errors were exhausted, the timeout elapsed, or the
	// caller cancelled.
	Aborted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Stopped:
		return "stopped"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool { return s != Running }

// Event is what one poll tick observed.
type Event int

const (
	// EventPending: any status other than complete or failed.
	EventPending Event = iota
	EventComplete
	EventFailed
	// EventRejected: non-2xx response.
	EventRejected
	// EventTransportError: the request failed but may be retried.
	EventTransportError
	// EventGaveUp: too many consecutive transport errors.
	EventGaveUp
	EventCancelled
)

// Next is the transition function. Terminal states absorb every event.
func (s State) Next(ev Event) State {
	if s.Terminal() {
		return s
	}
	switch ev {
	case EventComplete:
		return Done
	case EventFailed:
		return Failed
	case EventRejected:
		return Stopped
	case EventGaveUp, EventCancelled:
		return Aborted
	default:
		return Running
	}
}

// Source fetches the status of a task.
type Source interface {
	DeploymentStatus(ctx context.Context, taskID string) (*backend.TaskStatus, error)
}

// Config bounds a poller.
type Config struct {
	// Interval between the end of one request and the start of the next.
	Interval time.Duration
	// Timeout caps the whole run; zero disables it.
	Timeout time.Duration
	// MaxTransportErrors is the number of consecutive transport failures
	// tolerated before giving up. Values below 1 are treated as 1.
	MaxTransportErrors int
	// MaxBackoff caps the delay after a transport failure.
	MaxBackoff time.Duration
}

// Tick describes one completed request, for progress display.
type Tick struct {
	Attempt int
	State   State
	Status  *backend.TaskStatus
	Err     error
}

// Outcome is the terminal result of Run.
type Outcome struct {
	TaskID string
	State  State
	// Status is the last status received, if any.
	Status *backend.TaskStatus
	// Err explains Stopped and Aborted outcomes.
	Err error
	// Requests is the number of status requests issued.
	Requests int
}

// Message returns the server error text of a failed task.
func (o Outcome) Message() string {
	if o.Status != nil {
		return o.Status.Error
	}
	return ""
}

// Poller polls one task at a time.
type Poller struct {
	src    Source
	cfg    Config
	onTick func(Tick)
}

// Option customises a Poller.
type Option func(*Poller)

// WithObserver registers a callback run after every request.
func WithObserver(fn func(Tick)) Option { return func(p *Poller) { p.onTick = fn } }

// New creates a poller.
func New(src Source, cfg Config, opts ...Option) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxTransportErrors < 1 {
		cfg.MaxTransportErrors = 1
	}
	if cfg.MaxBackoff < cfg.Interval {
		cfg.MaxBackoff = cfg.Interval
	}
	p := &Poller{src: src, cfg: cfg}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run polls taskID until a terminal state and returns it. The first request
// is made one interval after the call.
func (p *Poller) Run(ctx context.Context, taskID string) Outcome {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	out := Outcome{TaskID: taskID, State: Running}
	failures := 0
	delay := p.cfg.Interval
	log := logging.L()

	for !out.State.Terminal() {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			out.State = out.State.Next(EventCancelled)
			out.Err = apperr.Wrap(apperr.Task, "stopped following task", ctx.Err())
			continue
		case <-timer.C:
		}

		out.Requests++
		st, err := p.src.DeploymentStatus(ctx, taskID)
		ev := classify(st, err)

		switch ev {
		case EventTransportError:
			if ctx.Err() != nil {
				ev = EventCancelled
				err = ctx.Err()
				break
			}
			failures++
			log.Debug("poller: status request failed", logging.Args("task", taskID, "attempt", failures, "error", err))
			if failures >= p.cfg.MaxTransportErrors {
				ev = EventGaveUp
			}
			delay = p.backoff(failures)
		default:
			failures = 0
			delay = p.cfg.Interval
		}

		out.State = out.State.Next(ev)
		if st != nil {
			out.Status = st
		}
		switch out.State {
		case Stopped:
			out.Err = apperr.Wrap(apperr.Request, "status check rejected", err)
		case Aborted:
			switch {
			case ev == EventCancelled:
				out.Err = apperr.Wrap(apperr.Task, "stopped following task", err)
			case failures == 0:
				out.Err = apperr.Wrap(apperr.Task, "cannot check task status", err)
			default:
				out.Err = apperr.Wrap(apperr.Transport, fmt.Sprintf("gave up after %d failed status checks", failures), err)
			}
		case Failed:
			out.Err = apperr.New(apperr.Task, out.Message())
		}
		if p.onTick != nil {
			p.onTick(Tick{Attempt: out.Requests, State: out.State, Status: st, Err: err})
		}
	}
	log.Debug("poller: finished", logging.Args("task", taskID, "state", out.State.String(), "requests", out.Requests))
	return out
}

// backoff doubles the interval per consecutive failure, capped at MaxBackoff.
func (p *Poller) backoff(failures int) time.Duration {
	d := p.cfg.Interval
	for i := 0; i < failures && d < p.cfg.MaxBackoff; i++ {
		d *= 2
	}
	if d > p.cfg.MaxBackoff {
		d = p.cfg.MaxBackoff
	}
	return d
}

func classify(st *backend.TaskStatus, err error) Event {
	if err != nil {
		var ae *backend.APIError
		if errors.As(err, &ae) {
			return EventRejected
		}
		if apperr.Is(err, apperr.Transport) {
			return EventTransportError
		}
		// Anything else (signed out, bad request construction) cannot
		// succeed on retry.
		return EventGaveUp
	}
	if st == nil {
		return EventPending
	}
	switch st.Status {
	case backend.TaskComplete:
		return EventComplete
	case backend.TaskFailed:
		return EventFailed
	default:
		return EventPending
	}
}
