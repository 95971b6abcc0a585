package projector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is one frame at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// DrawFunc draws one frame and reports whether it produced output. frame is
// the number of frames drawn before this one. It must not retain the scene
// after returning.
type DrawFunc func(frame int64, s *Scene) bool

// Loop redraws the current scene at a fixed interval until stopped. Scene
// updates are published atomically, so drawing never waits for a projection
// in progress and a projection never waits for a frame.
type Loop struct {
	interval time.Duration
	draw     DrawFunc
	scene    atomic.Pointer[Scene]
	frames   atomic.Int64

	mu      sync.Mutex
	started bool
	ended   bool
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewLoop creates a stopped loop. A non-positive interval selects
// DefaultFrameInterval.
func NewLoop(interval time.Duration, draw DrawFunc) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{interval: interval, draw: draw, stopped: make(chan struct{})}
}

// Update publishes a new scene for subsequent frames.
func (l *Loop) Update(s *Scene) { l.scene.Store(s) }

// Scene returns the scene the next frame will draw.
func (l *Loop) Scene() *Scene { return l.scene.Load() }

// Frames returns the number of ticks on which the draw func reported a
// drawn frame. Ticks it skipped are not counted.
func (l *Loop) Frames() int64 { return l.frames.Load() }

// Start runs the loop in a goroutine until ctx is done or Stop is called.
// Frames with no scene published are skipped. Calls after the first, or
// after Stop, do nothing.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.ended {
		return
	}
	l.started = true
	ctx, l.cancel = context.WithCancel(ctx)

	go func() {
		defer close(l.stopped)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := l.scene.Load()
				if s == nil || l.draw == nil {
					continue
				}
				if l.draw(l.frames.Load(), s) {
					l.frames.Add(1)
				}
			}
		}
	}()
}

// Stop ends the loop and waits for the current frame to finish. It is safe
// to call more than once, and before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.ended {
		l.ended = true
		if l.started {
			l.cancel()
		} else {
			close(l.stopped)
		}
	}
	l.mu.Unlock()
	<-l.stopped
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.stopped }
