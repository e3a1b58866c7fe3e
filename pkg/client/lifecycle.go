package client

import (
	"errors"
	"sync"

	"intake_backend/pkg/intake"
)

var ErrAlreadyMounted = errors.New("form is already mounted")

// VisibilitySource reports when the form enters or leaves the viewport.
// Subscribe may report the current state before it returns. It returns the
// function that ends the subscription.
type VisibilitySource interface {
	Subscribe(fn func(visible bool)) (unsubscribe func())
}

// Mount captures attribution from pageURL once and starts listening for
// visibility. A second Mount without Unmount is rejected and captures nothing.
func (f *QuickIntakeForm) Mount(pageURL string, source VisibilitySource) error {
	gen, err := f.mount(pageURL)
	if err != nil || source == nil {
		return err
	}

	// onVisibility takes f.mu, so subscribe without holding it
	unsubscribe := source.Subscribe(f.onVisibility)

	f.mu.Lock()
	if f.mounted && f.mountGen == gen {
		f.unsubscribe = unsubscribe
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	// unmounted while subscribing
	unsubscribe()
	return nil
}

func (f *QuickIntakeForm) mount(pageURL string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mounted {
		return 0, ErrAlreadyMounted
	}

	attribution, err := intake.AttributionFromURL(pageURL)
	if err != nil {
		return 0, err
	}

	if f.everMounted {
		// remount is a fresh form
		f.payload = intake.QuickIntakePayload{}
		f.fields = nil
		f.message = ""
		f.state = Idle
	}
	f.attribution = attribution
	f.payload.Attribution = attribution
	f.viewTracked = false
	f.mounted = true
	f.everMounted = true
	f.mountGen++
	return f.mountGen, nil
}

// Unmount releases the visibility subscription. Safe to call more than once.
func (f *QuickIntakeForm) Unmount() {
	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return
	}
	f.mounted = false
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()

	// outside the lock: unsubscribe waits for an in-flight onVisibility
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (f *QuickIntakeForm) Mounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

func (f *QuickIntakeForm) onVisibility(visible bool) {
	f.mu.Lock()
	if !visible || !f.mounted || f.viewTracked {
		f.mu.Unlock()
		return
	}
	f.viewTracked = true
	f.mu.Unlock()

	f.analytics.Track(EventQuickIntakeView, viewProps())
}

type subscription struct {
	ch   chan bool
	done chan struct{}
	exit chan struct{}
	once sync.Once
}

// VisibilityFeed fans visibility changes out to subscribers, one goroutine
// per subscriber. The goroutine exits when its subscription ends.
type VisibilityFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscription
}

func NewVisibilityFeed() *VisibilityFeed {
	return &VisibilityFeed{subs: make(map[int]*subscription)}
}

func (v *VisibilityFeed) Subscribe(fn func(visible bool)) func() {
	sub := &subscription{
		ch:   make(chan bool),
		done: make(chan struct{}),
		exit: make(chan struct{}),
	}

	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = sub
	v.mu.Unlock()

	go func() {
		defer close(sub.exit)
		for {
			select {
			case visible := <-sub.ch:
				fn(visible)
			case <-sub.done:
				return
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
			close(sub.done)
		})
		<-sub.exit
	}
}

// Publish delivers visible to every current subscriber and returns once each
// one has received it.
func (v *VisibilityFeed) Publish(visible bool) {
	v.mu.Lock()
	subs := make([]*subscription, 0, len(v.subs))
	for _, s := range v.subs {
		subs = append(subs, s)
	}
	v.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- visible:
		case <-s.done:
		}
	}
}

// Subscribers is the number of live subscriptions.
func (v *VisibilityFeed) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
