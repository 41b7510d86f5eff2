package grundbuch

import (
	"context"
	"errors"

	"github.com/tsawler/grundbuch/extract"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/resolve"
	"github.com/tsawler/grundbuch/rules"
	"github.com/tsawler/grundbuch/segment"
)

// rightInput is the raw material of one Abteilung 2 or 3 entry
type rightInput struct {
	abteilung int
	nr        int
	reference string
	betrag    string
	text      string
	cancelled bool
	pos       model.Position
}

func rightInputs(gb *model.Grundbuch) []rightInput {
	var out []rightInput
	for _, e := range gb.Abteilung2.Eintraege {
		out = append(out, rightInput{
			abteilung: 2, nr: e.Nr, reference: e.BvNr, text: e.Text,
			cancelled: e.IsCancelled(), pos: e.Pos,
		})
	}
	for _, e := range gb.Abteilung3.Eintraege {
		out = append(out, rightInput{
			abteilung: 3, nr: e.Nr, reference: e.BvNr, betrag: e.Betrag, text: e.Text,
			cancelled: e.IsCancelled(), pos: e.Pos,
		})
	}
	return out
}

// analyse runs the text rules over every right and resolves the parcels
// each one encumbers
func (r *run) analyse(ctx context.Context, gb *model.Grundbuch) ([]AnalysedRight, error) {
	inputs := rightInputs(gb)
	seg := segment.NewSegmenterWithConfig(r.cfg.SegmentConfig())

	rights := make([]AnalysedRight, len(inputs))
	reqs := make([]resolve.Request, len(inputs))
	for i, in := range inputs {
		a, err := r.analyseRight(ctx, seg, in)
		if err != nil {
			return nil, err
		}
		rights[i] = a
		reqs[i] = resolve.Request{Refs: a.References, RawReference: in.reference, Text: a.Text}
	}

	snap := resolve.NewSnapshot(gb.Titelblatt.GrundbuchVon, &gb.Bestandsverzeichnis)
	resolver := resolve.NewResolverWithConfig(r.cfg.ResolveConfig(), resolve.WithLogger(r.logger))
	results, err := resolver.ResolveAll(ctx, snap, reqs)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		rights[i].Parcels = res.Parcels
		rights[i].Diagnostic = res.Diagnostic
		for _, p := range res.Problems {
			rights[i].Problems.Add(p)
		}
	}
	return rights, nil
}

func (r *run) analyseRight(ctx context.Context, seg *segment.Segmenter, in rightInput) (AnalysedRight, error) {
	a := AnalysedRight{
		Abteilung: in.abteilung,
		LfdNr:     in.nr,
		Reference: in.reference,
		Text:      in.text,
		Cancelled: in.cancelled,
		Position:  in.pos,
	}

	cleaned, err := r.rule.Clean(ctx, in.text)
	if err := r.ruleError(&a, "clean", err); err != nil {
		return a, err
	}
	if err == nil {
		a.Text = cleaned
	}
	a.Sentences = seg.Split(a.Text)

	switch in.abteilung {
	case 2:
		rt, err := r.rule.ClassifyRight(ctx, a.Text, a.Sentences)
		if err := r.ruleError(&a, "classify right", err); err != nil {
			return a, err
		}
		a.RightType = rt
	case 3:
		dt, err := r.rule.ClassifyDebt(ctx, a.Text, a.Sentences)
		if err := r.ruleError(&a, "classify debt", err); err != nil {
			return a, err
		}
		a.DebtType = dt

		// The amount column is authoritative; the text is the fallback.
		amount, err := r.rule.ExtractAmount(ctx, in.betrag)
		if err != nil && ctx.Err() == nil {
			amount, err = r.rule.ExtractAmount(ctx, a.Text)
		}
		if err := r.ruleError(&a, "extract amount", err); err != nil {
			return a, err
		}
		if err == nil {
			a.Amount = &amount
		}
	}

	holder, err := r.rule.ExtractRightsholder(ctx, a.Text, a.Sentences)
	if err := r.ruleError(&a, "extract rightsholder", err); err != nil {
		return a, err
	}
	a.Rightsholder = holder

	rang, err := r.rule.ExtractRangvermerk(ctx, a.Text, a.Sentences)
	if err := r.ruleError(&a, "extract rangvermerk", err); err != nil {
		return a, err
	}
	a.Rangvermerk = rang

	if date, ok := extract.RegistrationDate(a.Sentences); ok {
		a.Eingetragen = date
	}

	refs, err := r.rule.ParseColumn1(ctx, in.reference, a.Text)
	if err := r.ruleError(&a, "parse column 1", err); err != nil {
		return a, err
	}
	a.References = refs
	return a, nil
}

// ruleError sorts the error of one rule call. Cancellation aborts the run.
// A missing match or an operation the rule does not provide is not an
// error; any other failure becomes a warning on the right.
func (r *run) ruleError(a *AnalysedRight, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, rules.ErrNoMatch) || errors.Is(err, rules.ErrNotImplemented) {
		return nil
	}
	r.logger.Warn("text rule failed", "op", op, "abteilung", a.Abteilung, "lfd_nr", a.LfdNr, "err", err)
	a.Problems.Add(model.Problem{
		Severity: model.SeverityWarning,
		Kind:     model.KindTool,
		Message:  op + ": " + err.Error(),
	})
	return nil
}
