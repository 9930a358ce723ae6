package stream

import (
	"errors"
	"fmt"
	"strings"
)

// FusionMode is a bit set negotiated between a consumer and the handle it got
// from its upstream. A consumer asks for the modes it can drive and the
// upstream answers with the subset it accepts.
type FusionMode int

const (
	// FusionNone means values are pushed through OnNext.
	FusionNone FusionMode = 0
	// FusionSync means the consumer pulls with Poll on its own goroutine until
	// Poll reports the end. No OnNext or OnComplete is delivered.
	FusionSync FusionMode = 1 << 0
	// FusionAsync is a buffered, signal-driven pull mode. Sources in this
	// module never grant it.
	FusionAsync FusionMode = 1 << 1
	// FusionAny asks for whichever of sync or async the upstream supports.
	FusionAny = FusionSync | FusionAsync
	// FusionBoundary marks a consumer that crosses goroutines; upstreams that
	// run user code on poll may refuse fusion when it is set.
	FusionBoundary FusionMode = 1 << 2
)

// ErrOfferUnsupported is the panic value raised when a value is pushed into a
// producer-only queue.
var ErrOfferUnsupported = errors.New("stream: offer is not supported by a producer-only queue")

// Has reports whether every bit of other is set in m.
func (m FusionMode) Has(other FusionMode) bool {
	return m&other == other && other != FusionNone
}

func (m FusionMode) String() string {
	if m == FusionNone {
		return "none"
	}
	var parts []string
	if m&FusionSync != 0 {
		parts = append(parts, "sync")
	}
	if m&FusionAsync != 0 {
		parts = append(parts, "async")
	}
	if m&FusionBoundary != 0 {
		parts = append(parts, "boundary")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("FusionMode(%d)", int(m))
	}
	return strings.Join(parts, "|")
}

// ParseFusionMode accepts the names printed by String, joined with "|".
func ParseFusionMode(s string) (FusionMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return FusionNone, nil
	}
	var m FusionMode
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "sync":
			m |= FusionSync
		case "async":
			m |= FusionAsync
		case "any":
			m |= FusionAny
		case "boundary":
			m |= FusionBoundary
		default:
			return FusionNone, fmt.Errorf("unknown fusion mode %q", part)
		}
	}
	return m, nil
}

// QueueDisposable is the pull side of a subscription. A consumer that finds
// it behind the Disposable handed to OnSubscribe may call RequestFusion once,
// before consuming anything. If a non-none mode is granted the consumer
// drives the subscription with Poll; otherwise values keep arriving through
// OnNext. The two are never mixed within one subscription.
type QueueDisposable[T any] interface {
	Disposable

	// RequestFusion returns the granted subset of mode.
	RequestFusion(mode FusionMode) FusionMode

	// Poll returns the next value, or ok == false once the queue is exhausted.
	Poll() (v T, ok bool)

	// IsEmpty reports whether Poll would return the end marker. It has no side
	// effects.
	IsEmpty() bool

	// Clear drops every value not yet polled.
	Clear()

	// Offer and OfferPair push values into the queue. Producer-only queues
	// panic with ErrOfferUnsupported.
	Offer(v T) bool
	OfferPair(a, b T) bool
}

// AsQueueDisposable probes d for the pull protocol.
func AsQueueDisposable[T any](d Disposable) (QueueDisposable[T], bool) {
	q, ok := d.(QueueDisposable[T])
	return q, ok
}
