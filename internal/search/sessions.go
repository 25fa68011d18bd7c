package search

import (
	"context"
	"errors"
	"sync"

	"talentmatch-engine/internal/domain"
)

// ErrSuperseded reports that a newer search for the same session started
// while this one was running. Only the newest request's results are
// delivered.
var ErrSuperseded = errors.New("search superseded by a newer request")

type slot struct {
	seq    uint64
	cancel context.CancelFunc
}

// registry tracks the in-flight search per session so a new request can
// cancel the previous one.
type registry struct {
	mu     sync.Mutex
	active map[string]*slot
}

func newRegistry() *registry {
	return &registry{active: make(map[string]*slot)}
}

// beginSession cancels any running search for the session and registers
// a new one. The returned seq identifies this request until a newer call.
func (r *registry) beginSession(ctx context.Context, session string) (context.Context, context.CancelFunc, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.active[session]; ok {
		prev.cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	var seq uint64
	if prev, ok := r.active[session]; ok {
		seq = prev.seq + 1
	} else {
		seq = 1
	}
	r.active[session] = &slot{seq: seq, cancel: cancel}
	return cctx, cancel, seq
}

// current reports whether seq is still the newest request for session.
func (r *registry) current(session string, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.active[session]
	return ok && s.seq == seq
}

// end clears the slot if this request is still the registered one.
func (r *registry) end(session string, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.active[session]; ok && s.seq == seq {
		delete(r.active, session)
	}
}

// SearchSession runs Search under last-request-wins semantics for the
// given session key. A request made obsolete mid-flight returns
// ErrSuperseded (or the cancellation error, whichever surfaces first).
// Requests without a session key are independent of each other and never
// supersede anything.
func (o *Orchestrator) SearchSession(ctx context.Context, session string, c domain.SearchCriteria, opts Options) ([]domain.MatchResult, error) {
	if session == "" {
		return o.Search(ctx, c, opts)
	}

	cctx, cancel, seq := o.sessions.beginSession(ctx, session)
	defer cancel()
	defer o.sessions.end(session, seq)

	results, err := o.Search(cctx, c, opts)
	if !o.sessions.current(session, seq) {
		return nil, ErrSuperseded
	}
	return results, err
}
