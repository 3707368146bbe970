package companion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/habitd/internal/engine"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Remark is the outcome of one companion request.
type Remark struct {
	Kind engine.EventKind
	Text string
	Err  error
	// InvalidateKey is set when the upstream rejected the credential.
	InvalidateKey bool
}

// Dispatcher runs at most one companion request at a time. Results are delivered on C.
type Dispatcher struct {
	gateway   Gateway
	model     atomic.Value
	companion string
	timeout   time.Duration
	log       *zap.Logger

	busy    atomic.Bool
	dropped atomic.Uint64
	out     chan Remark
	wg      sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithModel(model string) DispatcherOption {
	return func(d *Dispatcher) { d.model.Store(model) }
}

func WithCompanionName(name string) DispatcherOption {
	return func(d *Dispatcher) {
		if name != "" {
			d.companion = name
		}
	}
}

func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithDispatcherLogger(log *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDispatcher(gateway Gateway, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		gateway:   gateway,
		companion: "Seraphina",
		timeout:   DefaultTimeout,
		log:       zap.NewNop(),
		out:       make(chan Remark, 4),
	}
	d.model.Store("")
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) C() <-chan Remark { return d.out }

func (d *Dispatcher) Busy() bool { return d.busy.Load() }

func (d *Dispatcher) Dropped() uint64 { return d.dropped.Load() }

func (d *Dispatcher) Model() string { return d.model.Load().(string) }

func (d *Dispatcher) SetModel(model string) { d.model.Store(model) }

// Dispatch starts a request for prompt. It returns ErrMissingKey without a key and ErrBusy
// while another request is running; nothing is queued.
func (d *Dispatcher) Dispatch(ctx context.Context, apiKey string, kind engine.EventKind, prompt string) error {
	if apiKey == "" {
		return ErrMissingKey
	}
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	model := d.Model()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		started := time.Now()
		text, err := d.gateway.Generate(reqCtx, apiKey, model, prompt)
		if err == nil {
			text = StripSpeaker(text, d.companion)
			if text == "" {
				err = ErrEmptyResponse
			}
		}

		remark := Remark{Kind: kind, Text: text, Err: err, InvalidateKey: errors.Is(err, ErrInvalidAPIKey)}
		if err != nil {
			remark.Text = ""
			d.log.Warn("companion request failed",
				zap.String("event", string(kind)),
				zap.String("model", model),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err),
			)
		} else {
			d.log.Debug("companion remark",
				zap.String("event", string(kind)),
				zap.Duration("elapsed", time.Since(started)),
				zap.Int("chars", len(text)),
			)
		}

		d.busy.Store(false)
		select {
		case d.out <- remark:
		default:
			d.dropped.Add(1)
			d.log.Warn("companion remark dropped", zap.String("event", string(kind)))
		}
	}()
	return nil
}

// ListModels asks the gateway for the models the key can use.
func (d *Dispatcher) ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.gateway.ListModels(ctx, apiKey)
}

// Wait blocks until the running request, if any, has delivered its result.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
