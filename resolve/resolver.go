package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/grundbuch/model"
)

// Pattern is a named free-text pattern reported on unresolved rights
type Pattern struct {
	Name   string
	Regexp *regexp.Regexp
}

// Config holds resolver options
type Config struct {
	// Patterns are matched against the text of a right that resolved to no
	// parcel. Matching names go into the Diagnostic.
	Patterns []Pattern
	// Workers bounds ResolveAll; 0 means unbounded
	Workers int
}

// DefaultConfig returns a configuration without diagnostic patterns
func DefaultConfig() Config {
	return Config{Workers: 8}
}

// Request is one right to resolve
type Request struct {
	Refs []model.Spalte1Eintrag
	// RawReference is the column-1 text the refs were parsed from
	RawReference string
	// Text is the cleaned legal text of the right
	Text string
}

// Diagnostic records a right that resolved to no parcel, for operator review
type Diagnostic struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	RawReference string   `json:"raw_reference"`
	Patterns     []string `json:"patterns,omitempty"`
}

// Result is the outcome of resolving one right
type Result struct {
	Parcels    []Parcel       `json:"parcels"`
	Problems   model.Problems `json:"problems,omitempty"`
	Diagnostic *Diagnostic    `json:"diagnostic,omitempty"`
}

// Resolver maps column-1 references to parcels
type Resolver struct {
	config Config
	logger *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger for continuation notes and ambiguities
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver with default configuration
func NewResolver(opts ...Option) *Resolver {
	return NewResolverWithConfig(DefaultConfig(), opts...)
}

// NewResolverWithConfig creates a resolver with custom configuration
func NewResolverWithConfig(config Config, opts ...Option) *Resolver {
	r := &Resolver{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the current, uncancelled parcels a right encumbers.
// The only error is a cancelled context; everything else is reported in
// the Result.
func (r *Resolver) Resolve(ctx context.Context, snap *Snapshot, req Request) (Result, error) {
	var res Result

	selected := r.collect(snap, req.Refs)

	current, err := r.follow(ctx, snap, selected, &res.Problems)
	if err != nil {
		return Result{}, err
	}

	for _, i := range current {
		if snap.entries[i].cancelled {
			continue
		}
		p := snap.entries[i].Parcel
		if !slices.Contains(res.Parcels, p) {
			res.Parcels = append(res.Parcels, p)
		}
	}
	slices.SortFunc(res.Parcels, Parcel.compare)

	if len(res.Parcels) == 0 {
		res.Diagnostic = r.diagnose(req)
		r.logger.Warn("right encumbers no parcel",
			"reference", req.RawReference,
			"diagnostic", res.Diagnostic.ID)
	}
	return res, nil
}

// collect gathers the parcels named by number, narrowed by each reference's
// own filters, and then narrows the set by the combined filter of the
// global references
func (r *Resolver) collect(snap *Snapshot, refs []model.Spalte1Eintrag) []int {
	var selected []int
	var globals []model.Spalte1Eintrag
	for _, ref := range refs {
		if ref.BvNr == 0 {
			globals = append(globals, ref)
			continue
		}
		for i, e := range snap.entries {
			if e.LfdNr != ref.BvNr {
				continue
			}
			if len(ref.Filter) > 0 && !snap.matches(i, ref.Filter) {
				continue
			}
			if !slices.Contains(selected, i) {
				selected = append(selected, i)
			}
		}
	}

	if len(globals) == 0 {
		return selected
	}
	if len(globals) == len(refs) {
		// Stated by Flur/Flurstück alone: start from the whole register
		selected = make([]int, snap.Len())
		for i := range selected {
			selected[i] = i
		}
	}
	// All global references form one filter: an entry stays when it
	// matches any of their tuples
	var filter []model.FlurFlurstueck
	for _, g := range globals {
		filter = append(filter, g.Filter...)
	}
	if len(filter) == 0 {
		return selected
	}
	return slices.DeleteFunc(selected, func(i int) bool {
		return !snap.matches(i, filter)
	})
}

type advance struct {
	from, to int
}

// follow advances every parcel to its continuing entry until one full pass
// makes no change. Ambiguous parcels are reported once and dropped.
func (r *Resolver) follow(ctx context.Context, snap *Snapshot, start []int, problems *model.Problems) ([]int, error) {
	current := slices.Clone(start)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var changes []advance
		var ambiguous []int
		for _, i := range current {
			next := snap.successors(i)
			switch len(next) {
			case 0:
			case 1:
				changes = append(changes, advance{from: i, to: next[0]})
			default:
				ambiguous = append(ambiguous, i)
				problems.Add(r.ambiguity(snap, i, next))
			}
		}
		if len(changes) == 0 && len(ambiguous) == 0 {
			return current, nil
		}

		out := make([]int, 0, len(current))
		for _, i := range current {
			if slices.Contains(ambiguous, i) {
				continue
			}
			to := i
			for _, c := range changes {
				if c.from == i {
					to = c.to
					problems.Add(r.continuation(snap, c))
					break
				}
			}
			if !slices.Contains(out, to) {
				out = append(out, to)
			}
		}
		current = out
	}
}

func (r *Resolver) continuation(snap *Snapshot, c advance) model.Problem {
	from, to := snap.entries[c.from].Parcel, snap.entries[c.to].Parcel
	r.logger.Info("parcel continued",
		"lfd_nr", from.LfdNr,
		"to", to.LfdNr,
		"flur", from.Flur,
		"flurstueck", from.Flurstueck)
	return model.Problem{
		Severity: model.SeverityInfo,
		Kind:     model.KindContinuation,
		Message: fmt.Sprintf("Flur %d Flurstück %s continued from lfd. Nr. %d to lfd. Nr. %d",
			from.Flur, from.Flurstueck, from.LfdNr, to.LfdNr),
		Context: map[string]string{
			"from": strconv.Itoa(from.LfdNr),
			"to":   strconv.Itoa(to.LfdNr),
		},
	}
}

func (r *Resolver) ambiguity(snap *Snapshot, i int, next []int) model.Problem {
	from := snap.entries[i].Parcel
	nrs := make([]int, len(next))
	for k, j := range next {
		nrs[k] = snap.entries[j].LfdNr
	}
	r.logger.Warn("ambiguous parcel continuation",
		"lfd_nr", from.LfdNr,
		"flur", from.Flur,
		"flurstueck", from.Flurstueck,
		"candidates", nrs)
	return model.Consistencyf("Flur %d Flurstück %s at lfd. Nr. %d has %d possible continuations %v",
		from.Flur, from.Flurstueck, from.LfdNr, len(next), nrs).
		With("lfd_nr", strconv.Itoa(from.LfdNr)).
		With("gemarkung", from.Gemarkung)
}

func (r *Resolver) diagnose(req Request) *Diagnostic {
	d := &Diagnostic{
		ID:           uuid.NewString(),
		Text:         req.Text,
		RawReference: req.RawReference,
	}
	for _, p := range r.config.Patterns {
		if p.Regexp != nil && p.Regexp.MatchString(req.Text) {
			d.Patterns = append(d.Patterns, p.Name)
		}
	}
	return d
}

// ResolveAll resolves many rights concurrently against one snapshot.
// Results are returned in request order.
func (r *Resolver) ResolveAll(ctx context.Context, snap *Snapshot, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	if r.config.Workers > 0 {
		g.SetLimit(r.config.Workers)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Resolve(ctx, snap, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
