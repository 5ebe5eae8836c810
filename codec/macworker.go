package codec

import (
	"fmt"
	"sync"

	"github.com/dforgeas/encodetotext/wordmac"
)

// macQueueDepth is the bounded queue capacity between the encoder's
// producing goroutine and the single goroutine that owns the MAC.
const macQueueDepth = 50

type macJob struct {
	words []uint32
}

// macWorker runs the MAC update for every super-block but the first on its
// own goroutine, so the encoder can go on enciphering and emitting the next
// super-block's ciphertext while the previous one's MAC update completes.
// Once a worker is handed a MAC, it is the only goroutine permitted to touch
// it; the encoder must route every subsequent super-block through push.
type macWorker struct {
	jobs      chan *macJob
	done      chan struct{}
	mac       *wordmac.MAC
	err       error
	closeOnce sync.Once
}

func newMACWorker(mac *wordmac.MAC) *macWorker {
	w := &macWorker{
		jobs: make(chan *macJob, macQueueDepth),
		done: make(chan struct{}),
		mac:  mac,
	}
	go w.run()
	return w
}

func (w *macWorker) run() {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.err = fmt.Errorf("wordcipher: mac worker panicked: %v", r)
		}
	}()
	for job := range w.jobs {
		w.mac.UpdateAll(job.words)
	}
}

// push enqueues a super-block's ciphertext words for the worker to MAC. It
// blocks once the queue is full, which is the back-pressure that keeps the
// encoder from racing arbitrarily far ahead of the MAC.
func (w *macWorker) push(words []uint32) {
	job := &macJob{words: append([]uint32(nil), words...)}
	w.jobs <- job
}

func (w *macWorker) closeJobs() {
	w.closeOnce.Do(func() { close(w.jobs) })
}

// finish signals end-of-input, joins the worker goroutine, and returns the
// final digest. A panic recovered inside the worker is surfaced here as an
// error rather than propagated across the goroutine boundary.
func (w *macWorker) finish() ([wordmac.StateSize]uint32, error) {
	w.closeJobs()
	<-w.done
	if w.err != nil {
		return [wordmac.StateSize]uint32{}, w.err
	}
	return w.mac.Digest(), nil
}

// shutdown joins the worker without requiring a final digest. It is used
// when the encoder is unwinding after an earlier error: the worker must
// still be drained so its goroutine is never left running.
func (w *macWorker) shutdown() {
	w.closeJobs()
	<-w.done
}
