package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}

// nextSpanID returns a unique span identifier.
func nextSpanID() uint64 {
	return spanCounter.Add(1)
}

// Span tracks an in-progress logical operation.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	start    time.Time
}

// Begin starts a new span and emits its begin event.
// A nil or disabled tracer yields an inert span whose End is a no-op.
func Begin(t Tracer, scope Scope, name string, parentID uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{}
	}
	sp := &Span{
		tracer:   t,
		id:       nextSpanID(),
		parentID: parentID,
		scope:    scope,
		name:     name,
		start:    time.Now(),
	}
	t.Emit(Event{
		Time:     sp.start,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   sp.id,
		ParentID: parentID,
		Name:     name,
	})
	return sp
}

// ID returns the span identifier (0 for inert spans).
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// End emits the span end event with an optional detail message.
func (s *Span) End(detail string) {
	if s == nil || s.tracer == nil {
		return
	}
	s.tracer.Emit(Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
	})
}
