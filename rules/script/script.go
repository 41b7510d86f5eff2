// Package script implements rules.TextRule with operator-supplied JavaScript.
//
// A script defines any of the functions
//
//	clean(text)
//	classifyRight(text, sentences)
//	classifyDebt(text, sentences)
//	extractAmount(text)                  // {cents, currency} or null
//	extractRightsholder(text, sentences)
//	extractRangvermerk(text, sentences)  // string or null
//	parseColumn1(reference, text)        // [{bv_nr, teilbelastet, filter: [{flur, flurstueck, gemarkung}]}]
//
// Functions the script leaves out are answered by a fallback rule, by
// default rules.Native. Calls are serialised on one runtime and interrupted
// when their context ends.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dop251/goja"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/rules"
)

// Rule is a TextRule backed by a goja runtime
type Rule struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	fns      map[string]goja.Callable
	fallback rules.TextRule
	logger   *slog.Logger
}

// Option configures a Rule
type Option func(*Rule)

// WithFallback sets the rule used for functions the script does not define
func WithFallback(fallback rules.TextRule) Option {
	return func(r *Rule) {
		r.fallback = fallback
	}
}

// WithLogger sets the logger receiving the script's log() output
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rule) {
		r.logger = logger
	}
}

var functionNames = []string{
	"clean", "classifyRight", "classifyDebt", "extractAmount",
	"extractRightsholder", "extractRangvermerk", "parseColumn1",
}

// New evaluates source and binds the rule functions it defines
func New(source string, opts ...Option) (*Rule, error) {
	r := &Rule{
		vm:       goja.New(),
		fns:      make(map[string]goja.Callable),
		fallback: rules.NewNative(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	if err := r.vm.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]any, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			args = append(args, a.Export())
		}
		r.logger.Info("script", "args", args)
		return goja.Undefined()
	}); err != nil {
		return nil, err
	}

	if _, err := r.vm.RunString(source); err != nil {
		return nil, fmt.Errorf("evaluating rule script: %w", err)
	}
	for _, name := range functionNames {
		if fn, ok := goja.AssertFunction(r.vm.Get(name)); ok {
			r.fns[name] = fn
		}
	}
	return r, nil
}

// Load reads and evaluates a script file
func Load(path string, opts ...Option) (*Rule, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule script: %w", err)
	}
	return New(string(src), opts...)
}

// Defines reports whether the script provides the named function
func (r *Rule) Defines(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// call runs a script function. The second result is false when the script
// does not define it.
func (r *Rule) call(ctx context.Context, name string, args ...any) (goja.Value, bool, error) {
	fn, ok := r.fns[name]
	if !ok {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, true, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	// The watcher must be gone before the flag is cleared, or a late
	// interrupt would hit the next call.
	defer func() {
		close(done)
		<-stopped
		r.vm.ClearInterrupt()
	}()

	values := make([]goja.Value, len(args))
	for i, a := range args {
		if list, ok := a.([]string); ok {
			// a []any becomes a real JS array
			items := make([]any, len(list))
			for k, s := range list {
				items[k] = s
			}
			a = items
		}
		values[i] = r.vm.ToValue(a)
	}
	v, err := fn(goja.Undefined(), values...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, true, cause
			}
			return nil, true, context.Canceled
		}
		return nil, true, fmt.Errorf("%s: %w", name, err)
	}
	return v, true, nil
}

func isNothing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// Clean implements rules.TextRule
func (r *Rule) Clean(ctx context.Context, text string) (string, error) {
	v, ok, err := r.call(ctx, "clean", text)
	if !ok {
		return r.fallback.Clean(ctx, text)
	}
	if err != nil {
		return "", err
	}
	if isNothing(v) {
		return text, nil
	}
	return v.String(), nil
}

// ClassifyRight implements rules.TextRule
func (r *Rule) ClassifyRight(ctx context.Context, text string, sentences []string) (rules.RightType, error) {
	v, ok, err := r.call(ctx, "classifyRight", text, sentences)
	if !ok {
		return r.fallback.ClassifyRight(ctx, text, sentences)
	}
	if err != nil {
		return rules.RightUnknown, err
	}
	if isNothing(v) || v.String() == "" {
		return rules.RightUnknown, rules.ErrNoMatch
	}
	return rules.RightType(v.String()), nil
}

// ClassifyDebt implements rules.TextRule
func (r *Rule) ClassifyDebt(ctx context.Context, text string, sentences []string) (rules.DebtType, error) {
	v, ok, err := r.call(ctx, "classifyDebt", text, sentences)
	if !ok {
		return r.fallback.ClassifyDebt(ctx, text, sentences)
	}
	if err != nil {
		return rules.DebtUnknown, err
	}
	if isNothing(v) || v.String() == "" {
		return rules.DebtUnknown, rules.ErrNoMatch
	}
	return rules.DebtType(v.String()), nil
}

// ExtractAmount implements rules.TextRule
func (r *Rule) ExtractAmount(ctx context.Context, text string) (rules.Amount, error) {
	v, ok, err := r.call(ctx, "extractAmount", text)
	if !ok {
		return r.fallback.ExtractAmount(ctx, text)
	}
	if err != nil {
		return rules.Amount{}, err
	}
	if isNothing(v) {
		return rules.Amount{}, rules.ErrNoMatch
	}
	var a rules.Amount
	if err := r.export(v, &a); err != nil {
		return rules.Amount{}, fmt.Errorf("extractAmount: %w", err)
	}
	return a, nil
}

// ExtractRightsholder implements rules.TextRule
func (r *Rule) ExtractRightsholder(ctx context.Context, text string, sentences []string) (string, error) {
	v, ok, err := r.call(ctx, "extractRightsholder", text, sentences)
	if !ok {
		return r.fallback.ExtractRightsholder(ctx, text, sentences)
	}
	if err != nil {
		return "", err
	}
	if isNothing(v) || v.String() == "" {
		return "", rules.ErrNoMatch
	}
	return v.String(), nil
}

// ExtractRangvermerk implements rules.TextRule
func (r *Rule) ExtractRangvermerk(ctx context.Context, text string, sentences []string) (string, error) {
	v, ok, err := r.call(ctx, "extractRangvermerk", text, sentences)
	if !ok {
		return r.fallback.ExtractRangvermerk(ctx, text, sentences)
	}
	if err != nil {
		return "", err
	}
	if isNothing(v) || v.String() == "" {
		return "", rules.ErrNoMatch
	}
	return v.String(), nil
}

// ParseColumn1 implements rules.TextRule
func (r *Rule) ParseColumn1(ctx context.Context, reference, text string) ([]model.Spalte1Eintrag, error) {
	v, ok, err := r.call(ctx, "parseColumn1", reference, text)
	if !ok {
		return r.fallback.ParseColumn1(ctx, reference, text)
	}
	if err != nil {
		return nil, err
	}
	if isNothing(v) {
		return nil, rules.ErrNoMatch
	}
	var refs []model.Spalte1Eintrag
	if err := r.export(v, &refs); err != nil {
		return nil, fmt.Errorf("parseColumn1: %w", err)
	}
	if len(refs) == 0 {
		return nil, rules.ErrNoMatch
	}
	return refs, nil
}

func (r *Rule) export(v goja.Value, target any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vm.ExportTo(v, target)
}

var _ rules.TextRule = (*Rule)(nil)
