package sources

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tarungka/rxwire/stream"
)

// recorder logs every signal in arrival order. onSubscribe and onNext hooks
// run inside the corresponding callbacks.
type recorder struct {
	events      []string
	values      []int
	completed   int
	errs        []error
	handle      stream.Disposable
	onSubscribe func(r *recorder, d stream.Disposable)
	onNext      func(r *recorder, v int)
}

func (r *recorder) OnSubscribe(d stream.Disposable) {
	r.events = append(r.events, "subscribe")
	r.handle = d
	if r.onSubscribe != nil {
		r.onSubscribe(r, d)
	}
}

func (r *recorder) OnNext(v int) {
	r.events = append(r.events, fmt.Sprintf("next:%d", v))
	r.values = append(r.values, v)
	if r.onNext != nil {
		r.onNext(r, v)
	}
}

func (r *recorder) OnError(err error) {
	r.events = append(r.events, "error")
	r.errs = append(r.errs, err)
}

func (r *recorder) OnComplete() {
	r.events = append(r.events, "complete")
	r.completed++
}

func seq(start, count int) []int {
	if count == 0 {
		return nil
	}
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, start+i)
	}
	return out
}

// fuse requests mode from the handle and keeps the queue when sync was
// granted.
func fuse(mode stream.FusionMode, granted *stream.FusionMode, q *stream.QueueDisposable[int]) func(*recorder, stream.Disposable) {
	return func(_ *recorder, d stream.Disposable) {
		qd, ok := stream.AsQueueDisposable[int](d)
		if !ok {
			return
		}
		*granted = qd.RequestFusion(mode)
		if *granted&stream.FusionSync != 0 {
			*q = qd
		}
	}
}

func TestRange_Push(t *testing.T) {
	tests := []struct {
		name  string
		start int
		count int
	}{
		{name: "from zero", start: 0, count: 5},
		{name: "offset start", start: 5, count: 3},
		{name: "negative start", start: -3, count: 4},
		{name: "single value", start: 42, count: 1},
		{name: "empty", start: 7, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			NewRange(tt.start, tt.count).Subscribe(r)

			assert.Equal(t, seq(tt.start, tt.count), r.values)
			assert.Equal(t, 1, r.completed, "exactly one completion")
			assert.Empty(t, r.errs)
			require.NotEmpty(t, r.events)
			assert.Equal(t, "subscribe", r.events[0], "handle is delivered before any value")
			assert.Equal(t, "complete", r.events[len(r.events)-1])
			assert.True(t, r.handle.IsDisposed(), "handle is terminal after completion")
		})
	}
}

func TestRange_PollMatchesPush(t *testing.T) {
	tests := []struct {
		name  string
		start int
		count int
	}{
		{name: "several values", start: 10, count: 6},
		{name: "single value", start: -1, count: 1},
		{name: "empty", start: 3, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pushed := &recorder{}
			NewRange(tt.start, tt.count).Subscribe(pushed)

			var granted stream.FusionMode
			var q stream.QueueDisposable[int]
			pulled := &recorder{onSubscribe: fuse(stream.FusionSync, &granted, &q)}
			NewRange(tt.start, tt.count).Subscribe(pulled)

			require.Equal(t, stream.FusionSync, granted)
			require.NotNil(t, q)
			assert.Equal(t, []string{"subscribe"}, pulled.events, "a fused subscription is not pushed")

			var values []int
			for i := 0; i < tt.count; i++ {
				assert.False(t, q.IsEmpty())
				v, ok := q.Poll()
				require.True(t, ok)
				values = append(values, v)
			}
			assert.True(t, q.IsEmpty())
			assert.False(t, q.IsDisposed(), "not terminal until the end marker is polled")

			_, ok := q.Poll()
			assert.False(t, ok)
			assert.True(t, q.IsDisposed())

			_, ok = q.Poll()
			assert.False(t, ok, "end marker is sticky")

			assert.Equal(t, pushed.values, values)
			assert.Equal(t, []string{"subscribe"}, pulled.events, "pull protocol delivers no callbacks")
		})
	}
}

func TestRange_IsEmptyHasNoSideEffects(t *testing.T) {
	var granted stream.FusionMode
	var q stream.QueueDisposable[int]
	NewRange(0, 2).Subscribe(&recorder{onSubscribe: fuse(stream.FusionSync, &granted, &q)})
	require.NotNil(t, q)

	for i := 0; i < 3; i++ {
		assert.False(t, q.IsEmpty())
	}
	v, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestRange_Size(t *testing.T) {
	var granted stream.FusionMode
	var q stream.QueueDisposable[int]
	NewRange(100, 3).Subscribe(&recorder{onSubscribe: fuse(stream.FusionSync, &granted, &q)})
	require.NotNil(t, q)

	sized, ok := q.(interface{ Size() int })
	require.True(t, ok)
	assert.Equal(t, 3, sized.Size())
	q.Poll()
	assert.Equal(t, 2, sized.Size())
	q.Clear()
	assert.Equal(t, 0, sized.Size())
}

func TestRange_RequestFusion(t *testing.T) {
	tests := []struct {
		name      string
		requested stream.FusionMode
		granted   stream.FusionMode
	}{
		{name: "none", requested: stream.FusionNone, granted: stream.FusionNone},
		{name: "sync", requested: stream.FusionSync, granted: stream.FusionSync},
		{name: "async", requested: stream.FusionAsync, granted: stream.FusionNone},
		{name: "any", requested: stream.FusionAny, granted: stream.FusionSync},
		{name: "sync across boundary", requested: stream.FusionSync | stream.FusionBoundary, granted: stream.FusionSync},
		{name: "async across boundary", requested: stream.FusionAsync | stream.FusionBoundary, granted: stream.FusionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var granted stream.FusionMode
			var q stream.QueueDisposable[int]
			r := &recorder{onSubscribe: fuse(tt.requested, &granted, &q)}
			NewRange(5, 3).Subscribe(r)

			assert.Equal(t, tt.granted, granted)
			if tt.granted == stream.FusionNone {
				// refused: the subscription falls back to push
				assert.Nil(t, q)
				assert.Equal(t, []int{5, 6, 7}, r.values)
				assert.Equal(t, 1, r.completed)
			} else {
				assert.NotNil(t, q)
				assert.Empty(t, r.values)
				assert.Zero(t, r.completed)
			}
		})
	}
}

func TestRange_DisposeIsIdempotent(t *testing.T) {
	r := &recorder{}
	NewRange(0, 3).Subscribe(r)
	require.Equal(t, 1, r.completed)

	for i := 0; i < 3; i++ {
		r.handle.Dispose()
		assert.True(t, r.handle.IsDisposed())
	}
	assert.Equal(t, []int{0, 1, 2}, r.values)
	assert.Equal(t, 1, r.completed)
	assert.Equal(t, []string{"subscribe", "next:0", "next:1", "next:2", "complete"}, r.events)
}

func TestRange_DisposeBeforeFirstValue(t *testing.T) {
	r := &recorder{onSubscribe: func(_ *recorder, d stream.Disposable) {
		assert.False(t, d.IsDisposed())
		d.Dispose()
	}}
	NewRange(0, 10).Subscribe(r)

	assert.Empty(t, r.values)
	assert.Zero(t, r.completed)
	assert.Equal(t, []string{"subscribe"}, r.events)
}

func TestRange_DisposeFromOnNext(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		count  int
		stopAt int
	}{
		{name: "first value", start: 0, count: 10, stopAt: 0},
		{name: "middle value", start: 0, count: 10, stopAt: 4},
		{name: "last value", start: 3, count: 3, stopAt: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{onNext: func(r *recorder, v int) {
				if v == tt.stopAt {
					r.handle.Dispose()
				}
			}}
			NewRange(tt.start, tt.count).Subscribe(r)

			assert.Equal(t, seq(tt.start, tt.stopAt-tt.start+1), r.values, "nothing after the disposing value")
			assert.Zero(t, r.completed, "no completion after dispose")
			assert.True(t, r.handle.IsDisposed())
		})
	}
}

func TestRange_DisposeFromAnotherGoroutine(t *testing.T) {
	const stopAt = 10
	r := &recorder{onNext: func(r *recorder, v int) {
		if v != stopAt {
			return
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			r.handle.Dispose()
		}()
		<-done
	}}
	NewRange(0, 1<<20).Subscribe(r)

	assert.Equal(t, seq(0, stopAt+1), r.values)
	assert.Zero(t, r.completed)
}

func TestRange_ClearAfterPartialPoll(t *testing.T) {
	var granted stream.FusionMode
	var q stream.QueueDisposable[int]
	NewRange(1, 5).Subscribe(&recorder{onSubscribe: fuse(stream.FusionSync, &granted, &q)})
	require.NotNil(t, q)

	v, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = q.Poll()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	q.Clear()
	assert.True(t, q.IsEmpty())
	assert.True(t, q.IsDisposed())
	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestRange_OfferPanics(t *testing.T) {
	r := &recorder{}
	NewRange(0, 1).Subscribe(r)
	q, ok := stream.AsQueueDisposable[int](r.handle)
	require.True(t, ok)

	assert.PanicsWithError(t, stream.ErrOfferUnsupported.Error(), func() { q.Offer(1) })
	assert.PanicsWithError(t, stream.ErrOfferUnsupported.Error(), func() { q.OfferPair(1, 2) })
}

func TestRange_ColdSubscriptions(t *testing.T) {
	src := NewRange(5, 3)

	first, second := &recorder{}, &recorder{}
	src.Subscribe(first)
	src.Subscribe(second)
	assert.Equal(t, []int{5, 6, 7}, first.values)
	assert.Equal(t, []int{5, 6, 7}, second.values)
	assert.NotSame(t, first.handle, second.handle)

	// one disposed subscription does not affect another
	stopped := &recorder{onNext: func(r *recorder, v int) { r.handle.Dispose() }}
	src.Subscribe(stopped)
	after := &recorder{}
	src.Subscribe(after)
	assert.Equal(t, []int{5}, stopped.values)
	assert.Equal(t, []int{5, 6, 7}, after.values)
	assert.Equal(t, 1, after.completed)
}

func TestRange_ConcurrentSubscriptions(t *testing.T) {
	src := NewRange(5, 3)
	const subscribers = 16

	results := make([]*recorder, subscribers)
	var wg sync.WaitGroup
	for i := 0; i < subscribers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := &recorder{}
			src.Subscribe(r)
			results[i] = r
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, []int{5, 6, 7}, r.values, "subscriber %d", i)
		assert.Equal(t, 1, r.completed, "subscriber %d", i)
	}
}

func TestRange_Accessors(t *testing.T) {
	r := NewRange(-2, 9)
	assert.Equal(t, -2, r.Start())
	assert.Equal(t, 9, r.Count())
	assert.Equal(t, "range(start=-2, count=9)", r.String())
}

// MockObserver is a mock implementation of stream.Observer[int]
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) OnSubscribe(d stream.Disposable) { m.Called(d) }
func (m *MockObserver) OnNext(v int)                    { m.Called(v) }
func (m *MockObserver) OnError(err error)               { m.Called(err) }
func (m *MockObserver) OnComplete()                     { m.Called() }

func TestRange_SignalsWithMockObserver(t *testing.T) {
	o := new(MockObserver)
	sub := o.On("OnSubscribe", mock.Anything).Return().Once()
	n1 := o.On("OnNext", 1).Return().Once().NotBefore(sub)
	n2 := o.On("OnNext", 2).Return().Once().NotBefore(n1)
	o.On("OnComplete").Return().Once().NotBefore(n2)

	NewRange(1, 2).Subscribe(o)

	o.AssertExpectations(t)
	o.AssertNotCalled(t, "OnError", mock.Anything)
}
