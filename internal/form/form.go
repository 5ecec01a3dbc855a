// Package form implements a generic controlled-form state manager: field
// values, validation errors, touched flags and the submission lifecycle for
// an arbitrary value shape.
//
// A Form never interprets its fields. Validation is delegated to a pure
// function that maps field paths to messages, and submission to a handler
// that receives a copy of the values.
package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"
)

var (
	// ErrInvalid is returned by Submit when validation produced errors. The
	// errors themselves are in State().Errors.
	ErrInvalid = errors.New("form has validation errors")
	// ErrSubmitInProgress is returned by Submit while a previous submission
	// is still running.
	ErrSubmitInProgress = errors.New("form submission already in progress")
)

// Errors maps a field path (Path.String) to its message. A missing key means
// the field is valid.
type Errors map[string]string

// Get returns the message for p, or "".
func (e Errors) Get(p Path) string {
	return e[p.String()]
}

// ValidateFunc is a pure validation function over the whole value shape.
type ValidateFunc[T any] func(values T) Errors

// SubmitFunc receives the validated values.
type SubmitFunc[T any] func(ctx context.Context, values T) error

// InputType distinguishes inputs whose raw value is not text.
type InputType string

const (
	InputText     InputType = "text"
	InputCheckbox InputType = "checkbox"
)

// InputEvent is a change coming from a native input control.
type InputEvent struct {
	Path    Path
	Type    InputType
	Value   string
	Checked bool
}

// Options configures a Form.
type Options[T any] struct {
	Name     string
	Initial  T
	Validate ValidateFunc[T]
	OnSubmit SubmitFunc[T]
	Logger   *zap.Logger
}

// State is a snapshot of a form.
type State[T any] struct {
	Values       T               `json:"values"`
	Errors       Errors          `json:"errors"`
	Touched      map[string]bool `json:"touched"`
	IsSubmitting bool            `json:"isSubmitting"`
}

// Form is the state machine of one form instance. It is safe for concurrent
// use.
type Form[T any] struct {
	mu sync.RWMutex

	name     string
	initial  T
	validate ValidateFunc[T]
	onSubmit SubmitFunc[T]
	log      *zap.Logger

	values     T
	errors     Errors
	touched    map[string]bool
	submitting bool
}

// New initializes a form: values equal the initial values, errors and
// touched are empty and no submission is running.
func New[T any](opts Options[T]) *Form[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	initial := clone(opts.Initial)
	return &Form[T]{
		name:     opts.Name,
		initial:  initial,
		validate: opts.Validate,
		onSubmit: opts.OnSubmit,
		log:      log.With(zap.String("form", opts.Name)),
		values:   clone(initial),
		errors:   Errors{},
		touched:  map[string]bool{},
	}
}

// State returns a snapshot that shares nothing with the form.
func (f *Form[T]) State() State[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return State[T]{
		Values:       clone(f.values),
		Errors:       maps.Clone(f.errors),
		Touched:      maps.Clone(f.touched),
		IsSubmitting: f.submitting,
	}
}

// Values returns a copy of the current values.
func (f *Form[T]) Values() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return clone(f.values)
}

// Value reads the field at p.
func (f *Form[T]) Value(p Path) (any, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, err := lookup(reflect.ValueOf(&f.values).Elem(), p)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// ValueAs reads the field at p as a V.
func ValueAs[V, T any](f *Form[T], p Path) (V, error) {
	var zero V
	raw, err := f.Value(p)
	if err != nil {
		return zero, err
	}
	v, ok := raw.(V)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, p, raw)
	}
	return v, nil
}

// Change applies an input event. Checkbox events store the checked flag;
// every other event stores the text converted to the field's type. Change
// never validates.
func (f *Form[T]) Change(ev InputEvent) error {
	if ev.Type == InputCheckbox {
		return f.set(ev.Path, fromValue(ev.Checked))
	}
	return f.set(ev.Path, fromString(ev.Value))
}

// SetFieldValue stores value at p. It is the programmatic counterpart of
// Change for controls that are not native inputs.
func (f *Form[T]) SetFieldValue(p Path, value any) error {
	return f.set(p, fromValue(value))
}

func (f *Form[T]) set(p Path, produce producer) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Work on a copy so a failed assignment leaves the values untouched.
	next := clone(f.values)
	if err := assign(reflect.ValueOf(&next).Elem(), p, produce); err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	f.values = next
	return nil
}

// Blur marks p as touched and re-runs validation over all values. The
// result replaces the previous errors wholesale, so blurring one field can
// change the errors of others.
func (f *Form[T]) Blur(p Path) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[p.String()] = true
	if f.validate != nil {
		f.errors = normalize(f.validate(clone(f.values)))
	}
}

// SetFieldError overrides the message of a single field.
func (f *Form[T]) SetFieldError(p Path, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[p.String()] = msg
}

// ClearErrors drops every error.
func (f *Form[T]) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = Errors{}
}

// Submit validates the values and marks every top-level field touched. If
// validation fails it returns ErrInvalid without calling the handler. Else it
// runs the handler while IsSubmitting is set and clears the flag afterwards
// whatever the handler did. Handler errors and panics are logged, not
// returned.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	if f.validate != nil {
		for _, k := range topLevelKeys(reflect.ValueOf(f.values)) {
			f.touched[k] = true
		}
		f.errors = normalize(f.validate(clone(f.values)))
		if len(f.errors) > 0 {
			f.mu.Unlock()
			return ErrInvalid
		}
	}
	f.submitting = true
	values := clone(f.values)
	f.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			f.log.Error("form submit handler panicked", zap.Any("panic", r))
		}
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if f.onSubmit == nil {
		return nil
	}
	if err := f.onSubmit(ctx, values); err != nil {
		f.log.Error("form submission error", zap.Error(err))
	}
	return nil
}

// Reset restores the initial values and clears errors, touched flags and the
// submitting flag.
func (f *Form[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = clone(f.initial)
	f.errors = Errors{}
	f.touched = map[string]bool{}
	f.submitting = false
}

func normalize(errs Errors) Errors {
	if errs == nil {
		return Errors{}
	}
	return maps.Clone(errs)
}

func clone[T any](v T) T {
	if c, ok := deepcopy.Copy(v).(T); ok {
		return c
	}
	return v
}
