package model

import (
	"fmt"
	"sort"
	"strings"
)

// Severity grades a Problem
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProblemKind says which stage raised a Problem
type ProblemKind string

const (
	// KindFieldExtraction marks an optional field that was missing or unparseable.
	KindFieldExtraction ProblemKind = "field-extraction"
	// KindConsistency marks a numbering irregularity, an ambiguous parcel
	// continuation or a dangling cross-reference.
	KindConsistency ProblemKind = "consistency"
	// KindContinuation is the informational note left when a parcel was
	// followed to its successor entry.
	KindContinuation ProblemKind = "continuation"

	KindClassification ProblemKind = "classification"
	KindTool           ProblemKind = "tool"
)

// Problem is a diagnostic attached to the record it concerns
type Problem struct {
	Severity Severity          `json:"severity"`
	Kind     ProblemKind       `json:"kind"`
	Message  string            `json:"message"`
	Context  map[string]string `json:"context,omitempty"`
}

// Warningf builds a field-extraction warning
func Warningf(format string, args ...any) Problem {
	return Problem{Severity: SeverityWarning, Kind: KindFieldExtraction, Message: fmt.Sprintf(format, args...)}
}

// Consistencyf builds a consistency error
func Consistencyf(format string, args ...any) Problem {
	return Problem{Severity: SeverityError, Kind: KindConsistency, Message: fmt.Sprintf(format, args...)}
}

// With returns a copy of the problem carrying an extra context value
func (p Problem) With(key, value string) Problem {
	ctx := make(map[string]string, len(p.Context)+1)
	for k, v := range p.Context {
		ctx[k] = v
	}
	ctx[key] = value
	p.Context = ctx
	return p
}

// Equal reports whether two problems carry the same information
func (p Problem) Equal(other Problem) bool {
	if p.Severity != other.Severity || p.Kind != other.Kind || p.Message != other.Message {
		return false
	}
	if len(p.Context) != len(other.Context) {
		return false
	}
	for k, v := range p.Context {
		if other.Context[k] != v {
			return false
		}
	}
	return true
}

func (p Problem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", p.Severity, p.Kind, p.Message)
	if len(p.Context) > 0 {
		keys := make([]string, 0, len(p.Context))
		for k := range p.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%q", k, p.Context[k])
		}
	}
	return sb.String()
}

// Problems is the diagnostics list every record owns
type Problems []Problem

// Add appends p unless an equal problem is already present.
// Re-running a repair therefore never grows the list.
func (ps *Problems) Add(p Problem) {
	for _, existing := range *ps {
		if existing.Equal(p) {
			return
		}
	}
	*ps = append(*ps, p)
}

// Remove deletes every problem equal to p. It is used when a repair supplies
// what an earlier warning reported missing.
func (ps *Problems) Remove(p Problem) {
	out := (*ps)[:0]
	for _, existing := range *ps {
		if !existing.Equal(p) {
			out = append(out, existing)
		}
	}
	*ps = out
}

// HasErrors reports whether any problem has error severity
func (ps Problems) HasErrors() bool {
	for _, p := range ps {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// OfKind returns the problems of the given kind
func (ps Problems) OfKind(kind ProblemKind) Problems {
	var out Problems
	for _, p := range ps {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// FormatProblems renders a list of problems, one per line
func FormatProblems(ps []Problem) string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}
