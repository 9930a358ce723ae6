package sources

import (
	"fmt"
	"sync/atomic"

	"github.com/tarungka/rxwire/stream"
)

// Range is a cold source of the integers start, start+1, ..., start+count-1.
// Every subscriber gets its own run of the whole sequence followed by
// OnComplete. A count of zero completes immediately. Overflow of start+count
// and negative counts are the caller's concern.
type Range struct {
	start int
	count int
}

var _ stream.Source[int] = Range{}

// NewRange creates a new Range.
func NewRange(start, count int) Range {
	return Range{start: start, count: count}
}

func (r Range) Start() int { return r.start }

func (r Range) Count() int { return r.count }

func (r Range) String() string {
	return fmt.Sprintf("range(start=%d, count=%d)", r.start, r.count)
}

// Subscribe hands o a fresh handle and, unless o negotiated sync fusion from
// inside OnSubscribe, pushes the whole sequence on the calling goroutine.
func (r Range) Subscribe(o stream.Observer[int]) {
	parent := &rangeDisposable{
		downstream: o,
		index:      r.start,
		end:        r.start + r.count,
	}
	o.OnSubscribe(parent)
	if parent.fused {
		return
	}
	parent.run()
}

// rangeDisposable is the per-subscription emission state. index and fused
// are only touched by the goroutine driving the subscription; disposed is the
// one field other goroutines may write.
type rangeDisposable struct {
	downstream stream.Observer[int]

	end   int
	index int
	fused bool

	// 0 while active, 1 once completed, cleared or disposed.
	disposed atomic.Int32
}

var _ stream.QueueDisposable[int] = (*rangeDisposable)(nil)

func (d *rangeDisposable) run() {
	downstream := d.downstream
	e := d.end
	for i := d.index; i != e && d.disposed.Load() == 0; i++ {
		d.index = i + 1
		downstream.OnNext(i)
	}
	if d.disposed.Load() == 0 {
		d.lazySet()
		downstream.OnComplete()
	}
}

// lazySet marks the controller terminal from the goroutine driving it.
func (d *rangeDisposable) lazySet() {
	d.disposed.Store(1)
}

func (d *rangeDisposable) Offer(v int) bool {
	panic(stream.ErrOfferUnsupported)
}

func (d *rangeDisposable) OfferPair(a, b int) bool {
	panic(stream.ErrOfferUnsupported)
}

func (d *rangeDisposable) Poll() (int, bool) {
	i := d.index
	if i != d.end {
		d.index = i + 1
		return i, true
	}
	d.lazySet()
	return 0, false
}

func (d *rangeDisposable) IsEmpty() bool {
	return d.index == d.end
}

// Size returns how many values are left to poll.
func (d *rangeDisposable) Size() int {
	return d.end - d.index
}

func (d *rangeDisposable) Clear() {
	d.index = d.end
	d.lazySet()
}

func (d *rangeDisposable) Dispose() {
	d.disposed.Store(1)
}

func (d *rangeDisposable) IsDisposed() bool {
	return d.disposed.Load() != 0
}

// RequestFusion grants sync fusion when asked for it. Once granted,
// Subscribe leaves the sequence to Poll and does not push.
func (d *rangeDisposable) RequestFusion(mode stream.FusionMode) stream.FusionMode {
	granted := mode & stream.FusionSync
	if granted != stream.FusionNone {
		d.fused = true
	}
	return granted
}
