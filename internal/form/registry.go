// Package form provides the shared field registry behind the admission
// form: one mutable bag of field values with declarative per-field rules
// and watch-based cross-field re-validation. Sections never hold private
// copies of shared fields; everything goes through a *Registry handle.
package form

import (
	"sort"

	"github.com/rs/zerolog"
)

// Record is a snapshot of every field value at submission time.
type Record map[string]any

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors is the full set of per-field failures from one Submit call.
type FieldErrors map[string]ValidationError

// First returns the failing field that comes earliest in declaration
// order, so a caller can scroll to it.
func (fe FieldErrors) First(order []string) (ValidationError, bool) {
	for _, name := range order {
		if err, ok := fe[name]; ok {
			return err, true
		}
	}
	// Fields that were never declared still surface, in stable order.
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		return fe[names[0]], true
	}
	return ValidationError{}, false
}

type field struct {
	name  string
	rules []Rule
}

// Registry is the central store of field values, rules and watchers.
// Single-writer by construction: callers mutate it from one goroutine.
type Registry struct {
	order    []string
	fields   map[string]*field
	values   map[string]any
	watchers map[string][]string // changed field -> dependent fields
	errors   map[string]ValidationError
	logger   zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		fields:   make(map[string]*field),
		values:   make(map[string]any),
		watchers: make(map[string][]string),
		errors:   make(map[string]ValidationError),
		logger:   logger.With().Str("component", "field_registry").Logger(),
	}
}

// Declare registers a field and its rules. Declaration order determines
// validation order and which failing field is reported first. Redeclaring
// a field replaces its rules and keeps its position.
func (r *Registry) Declare(name string, rules ...Rule) {
	if existing, ok := r.fields[name]; ok {
		existing.rules = rules
		return
	}
	r.fields[name] = &field{name: name, rules: rules}
	r.order = append(r.order, name)
}

// Watch makes dependent re-validate whenever watched changes. Used for
// cross-field constraints such as phone distinctness and derived fees.
func (r *Registry) Watch(watched, dependent string) {
	for _, d := range r.watchers[watched] {
		if d == dependent {
			return
		}
	}
	r.watchers[watched] = append(r.watchers[watched], dependent)
}

// Get returns the current value of a field, nil when unset.
func (r *Registry) Get(name string) any {
	return r.values[name]
}

// Set updates a field value and synchronously re-validates every watcher
// of that field against the new state.
func (r *Registry) Set(name string, value any) {
	r.values[name] = value
	delete(r.errors, name)
	for _, dep := range r.watchers[name] {
		r.revalidate(dep)
	}
}

// Clear removes a field value.
func (r *Registry) Clear(name string) {
	delete(r.values, name)
	delete(r.errors, name)
	for _, dep := range r.watchers[name] {
		r.revalidate(dep)
	}
}

func (r *Registry) revalidate(name string) {
	f, ok := r.fields[name]
	if !ok {
		return
	}
	if err, failed := r.check(f); failed {
		r.errors[name] = err
	} else {
		delete(r.errors, name)
	}
}

func (r *Registry) check(f *field) (ValidationError, bool) {
	value := r.values[f.name]
	for _, rule := range f.rules {
		if msg := rule.Check(value, r); msg != "" {
			return ValidationError{Field: f.name, Message: msg}, true
		}
	}
	return ValidationError{}, false
}

// Validate runs a field's rules against current registry state and
// records the outcome.
func (r *Registry) Validate(name string) error {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	if err, failed := r.check(f); failed {
		r.errors[name] = err
		return err
	}
	delete(r.errors, name)
	return nil
}

// Errors returns the current live per-field error state, as maintained by
// Set/Validate/Submit.
func (r *Registry) Errors() FieldErrors {
	out := make(FieldErrors, len(r.errors))
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

// Order returns field names in declaration order.
func (r *Registry) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Snapshot copies the current values without validating.
func (r *Registry) Snapshot() Record {
	rec := make(Record, len(r.values))
	for k, v := range r.values {
		rec[k] = v
	}
	return rec
}

// Submit runs every declared rule. On any failure the full error set is
// returned together with no other side effects, so the caller can
// highlight every offending field at once. On success it returns a
// snapshot of all values.
func (r *Registry) Submit() (Record, FieldErrors) {
	failures := make(FieldErrors)
	for _, name := range r.order {
		f := r.fields[name]
		if err, failed := r.check(f); failed {
			failures[name] = err
		}
	}

	if len(failures) > 0 {
		for k, v := range failures {
			r.errors[k] = v
		}
		first, _ := failures.First(r.order)
		r.logger.Debug().
			Int("failed_fields", len(failures)).
			Str("first_field", first.Field).
			Msg("submission rejected by validation")
		return nil, failures
	}

	return r.Snapshot(), nil
}
