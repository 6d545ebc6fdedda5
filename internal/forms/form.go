package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/submission"
	"github.com/spec-kit/lead-capture-service/internal/validation"
)

var (
	// ErrInFlight is returned when a submission of the same form instance is outstanding.
	ErrInFlight = errors.New("form submission already in flight")
	// ErrUnknownField is returned by SetField for names the definition does not declare.
	ErrUnknownField = errors.New("unknown form field")
)

// Submitter performs the insert for a validated draft.
type Submitter interface {
	Submit(ctx context.Context, collection domain.Collection, mapping submission.Mapping, draft map[string]string) submission.Result
}

// InFlightGuard extends the in-flight flag across processes and requests.
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Option customizes a Form.
type Option func(*Form)

// WithGuard locks key in guard for the duration of the insert.
func WithGuard(guard InFlightGuard, key string) Option {
	return func(f *Form) {
		f.guard = guard
		f.guardKey = key
	}
}

// WithLogger sets the logger used for guard failures.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form is one instance of a lead-capture form: a draft plus an in-flight flag.
type Form struct {
	def       Definition
	submitter Submitter
	notifier  notify.Notifier
	logger    *zap.Logger
	guard     InFlightGuard
	guardKey  string

	mu       sync.Mutex
	values   map[string]string
	inFlight atomic.Bool
}

// New creates an empty form for def.
func New(def Definition, submitter Submitter, notifier notify.Notifier, opts ...Option) *Form {
	if notifier == nil {
		notifier = notify.Discard
	}
	f := &Form{
		def:       def,
		submitter: submitter,
		notifier:  notifier,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.values = f.emptyDraft()
	return f
}

func (f *Form) Definition() Definition {
	return f.def
}

// SetField replaces one draft value without validating it.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.values[name] = value
	return nil
}

// Values returns a copy of the draft.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyDraft(f.values)
}

func (f *Form) InFlight() bool {
	return f.inFlight.Load()
}

// Reset returns every field to the empty string.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = f.emptyDraft()
}

// Submit validates the draft and, when accepted, hands it to the submitter exactly once.
// It returns ErrInFlight while another Submit on the same form is outstanding and a
// *validation.Error when the draft is rejected; in both cases no insert is attempted.
// Store outcomes are reported through the Result, never as an error.
func (f *Form) Submit(ctx context.Context) (submission.Result, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return submission.Result{}, ErrInFlight
	}
	defer f.inFlight.Store(false)

	draft := f.Values()
	if err := f.def.Schema.Validate(draft); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			f.notifier.Notify(notify.Failure("Validation Error", vErr.Message))
		}
		return submission.Result{}, err
	}

	if f.guard != nil && f.guardKey != "" {
		acquired, err := f.guard.Acquire(ctx, f.guardKey)
		switch {
		case err != nil:
			f.logger.Warn("in-flight guard unavailable", zap.String("form", string(f.def.Kind)), zap.Error(err))
		case !acquired:
			return submission.Result{}, ErrInFlight
		default:
			defer f.releaseGuard()
		}
	}

	res := f.invoke(ctx, draft)
	switch res.Outcome {
	case submission.OutcomeOK:
		f.Reset()
		f.notifier.Notify(f.def.Success)
	case submission.OutcomeConflict:
		if f.def.Conflict != nil {
			f.notifier.Notify(*f.def.Conflict)
		} else {
			f.notifier.Notify(f.def.Failure)
		}
	default:
		f.notifier.Notify(f.def.Failure)
	}
	return res, nil
}

func (f *Form) invoke(ctx context.Context, draft map[string]string) (res submission.Result) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("form submitter panicked", zap.String("form", string(f.def.Kind)), zap.Any("panic", r))
			res = submission.Result{Outcome: submission.OutcomeFailed, Err: fmt.Errorf("submitter panic: %v", r)}
		}
	}()
	return f.submitter.Submit(ctx, f.def.Collection, f.def.Mapping, draft)
}

func (f *Form) releaseGuard() {
	// The request context may already be done; the release must still reach the guard.
	if err := f.guard.Release(context.Background(), f.guardKey); err != nil {
		f.logger.Warn("in-flight guard release failed", zap.String("form", string(f.def.Kind)), zap.Error(err))
	}
}

func (f *Form) emptyDraft() map[string]string {
	draft := make(map[string]string, len(f.def.Schema.Fields))
	for _, name := range f.def.FieldNames() {
		draft[name] = ""
	}
	return draft
}

func copyDraft(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
