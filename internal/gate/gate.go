// Package gate keeps a page hidden until a custom element has been
// registered with the document, then reveals it exactly once.
//
// The gate does not know how registration is observed or how the page is
// mutated. Both are injected: an ElementRegistry reports when a tag name
// becomes defined, a Document removes the hiding class from <body>. Hosts
// without custom element support use Immediate, which makes Arm reveal the
// page synchronously.
package gate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultElement     = "animatable-component"
	DefaultHiddenClass = "d-none"
)

var ErrAlreadyArmed = errors.New("gate: already armed")

// State of the page. The only transition is Hidden -> Visible.
type State int32

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	}
	return "unknown"
}

// Signal is closed once, when the awaited element becomes defined. It is
// never closed if the element is never defined.
type Signal <-chan struct{}

// ElementRegistry is the custom element registration capability of a host.
type ElementRegistry interface {
	WhenDefined(ctx context.Context, name string) Signal
}

// Document is the page whose body carries the hiding class. Removing a class
// that is not present must succeed without effect.
type Document interface {
	RemoveBodyClass(ctx context.Context, class string) error
}

var fired = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

type immediate struct{}

// Immediate is the registry of a host that cannot query custom element
// registration: every element counts as defined already.
func Immediate() ElementRegistry { return immediate{} }

func (immediate) WhenDefined(context.Context, string) Signal { return fired }

type Options struct {
	// Element is the custom element tag to wait for.
	Element string
	// HiddenClass is removed from <body> on reveal.
	HiddenClass string
	// RevealTimeout bounds the wait. Zero waits forever, which leaves the
	// page hidden if the element never registers.
	RevealTimeout time.Duration
	Logger        *zap.Logger
}

type Gate struct {
	registry ElementRegistry
	doc      Document
	opts     Options
	log      *zap.Logger

	armed atomic.Bool
	once  sync.Once
	state atomic.Int32
	done  chan struct{}
	err   error
}

// New builds a gate in the Hidden state. A nil registry means Immediate.
func New(registry ElementRegistry, doc Document, opts Options) *Gate {
	if registry == nil {
		registry = Immediate()
	}
	if opts.Element == "" {
		opts.Element = DefaultElement
	}
	if opts.HiddenClass == "" {
		opts.HiddenClass = DefaultHiddenClass
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{
		registry: registry,
		doc:      doc,
		opts:     opts,
		log:      log.With(zap.String("element", opts.Element)),
		done:     make(chan struct{}),
	}
}

// Arm subscribes to the element's registration. When the registry reports
// the element as already defined the page is revealed before Arm returns,
// and the returned error is the reveal error. Otherwise the wait runs in the
// background until the signal fires, the timeout elapses, or ctx is done.
// Cancellation leaves the page hidden.
func (g *Gate) Arm(ctx context.Context) error {
	if !g.armed.CompareAndSwap(false, true) {
		return ErrAlreadyArmed
	}

	sig := g.registry.WhenDefined(ctx, g.opts.Element)
	select {
	case <-sig:
		g.log.Debug("element already defined, revealing synchronously")
		return g.Reveal(ctx)
	default:
	}

	go g.wait(ctx, sig)
	return nil
}

func (g *Gate) wait(ctx context.Context, sig Signal) {
	var timeout <-chan time.Time
	if g.opts.RevealTimeout > 0 {
		t := time.NewTimer(g.opts.RevealTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-sig:
		g.log.Debug("element defined")
	case <-timeout:
		g.log.Warn("element not defined in time, revealing anyway",
			zap.Duration("timeout", g.opts.RevealTimeout))
	case <-ctx.Done():
		g.log.Debug("gate wait cancelled, page stays hidden", zap.Error(ctx.Err()))
		return
	}

	if err := g.Reveal(ctx); err != nil {
		g.log.Error("reveal failed", zap.Error(err))
	}
}

// Reveal removes the hiding class. Only the first call touches the
// document; later calls return nil.
func (g *Gate) Reveal(ctx context.Context) error {
	first := false
	g.once.Do(func() {
		first = true
		g.err = g.doc.RemoveBodyClass(ctx, g.opts.HiddenClass)
		if g.err == nil {
			g.state.Store(int32(Visible))
			g.log.Info("page revealed", zap.String("class", g.opts.HiddenClass))
		}
		close(g.done)
	})
	if !first {
		return nil
	}
	return g.err
}

func (g *Gate) State() State { return State(g.state.Load()) }

// Done is closed once the reveal has been attempted.
func (g *Gate) Done() <-chan struct{} { return g.done }

// Err reports the document error of the reveal, if it ran and failed.
func (g *Gate) Err() error {
	select {
	case <-g.done:
		return g.err
	default:
		return nil
	}
}
