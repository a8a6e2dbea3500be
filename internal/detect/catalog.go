// Package detect implements the signal detection pipeline: a static catalog
// of weighted signals, one pure detector per signal, additive score
// aggregation, and severity-ordered explanation composition.
package detect

import (
	"errors"
	"fmt"
)

// Severity orders explanations; high-severity signals render first.
type Severity int

const (
	SeverityMedium Severity = iota
	SeverityHigh
)

// Signal identifiers. Detectors and the catalog must stay in lock-step;
// Catalog.Validate enforces this at startup.
const (
	SignalSPFFail         = "spf_fail"
	SignalDKIMFail        = "dkim_fail"
	SignalDMARCFail       = "dmarc_fail"
	SignalReplyToMismatch = "reply_to_mismatch"
	SignalRiskyAttachment = "risky_attachment"
	SignalURLShortener    = "url_shortener"
)

// ErrUnknownSignal indicates a catalog/detector mismatch. This is a
// deployment defect: it aborts startup validation and never surfaces
// per-request.
var ErrUnknownSignal = errors.New("unknown signal")

// SignalDefinition declares one detectable signal: its score contribution,
// the template its explanation renders from, and the severity used to order
// explanations.
type SignalDefinition struct {
	ID       string
	Weight   int
	Severity Severity
	Template string
}

// SignalResult is one detector's verdict for one assessment run.
type SignalResult struct {
	ID        string
	Triggered bool
	// Detail is interpolated into the definition's template, e.g. the
	// offending domain or filename.
	Detail string
}

// defaultDefinitions is the built-in signal table. Declaration order is the
// tie-break order for explanations within a severity tier.
var defaultDefinitions = []SignalDefinition{
	{ID: SignalSPFFail, Weight: 15, Severity: SeverityHigh, Template: "SPF check failed for sending domain %s"},
	{ID: SignalDKIMFail, Weight: 15, Severity: SeverityHigh, Template: "DKIM signature verification failed for %s"},
	{ID: SignalDMARCFail, Weight: 15, Severity: SeverityHigh, Template: "DMARC policy evaluation failed for %s"},
	{ID: SignalReplyToMismatch, Weight: 10, Severity: SeverityMedium, Template: "Reply-To domain %s differs from the sender domain"},
	{ID: SignalRiskyAttachment, Weight: 20, Severity: SeverityHigh, Template: "Attachment %s has an executable or script file type"},
	{ID: SignalURLShortener, Weight: 10, Severity: SeverityMedium, Template: "Message links through URL shortener %s"},
}

// Catalog is the process-wide signal table, immutable after construction.
type Catalog struct {
	definitions []SignalDefinition
	byID        map[string]int
}

// NewCatalog builds the catalog from the built-in table, applying any
// per-signal weight overrides from configuration. Overriding an unknown
// signal id is rejected.
func NewCatalog(weightOverrides map[string]int) (*Catalog, error) {
	defs := make([]SignalDefinition, len(defaultDefinitions))
	copy(defs, defaultDefinitions)

	byID := make(map[string]int, len(defs))
	for i, def := range defs {
		byID[def.ID] = i
	}

	for id, weight := range weightOverrides {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("weight override for %q: %w", id, ErrUnknownSignal)
		}
		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("weight override for %q out of range: %d", id, weight)
		}
		defs[i].Weight = weight
	}

	return &Catalog{definitions: defs, byID: byID}, nil
}

// Lookup returns the definition for a signal id.
func (c *Catalog) Lookup(id string) (SignalDefinition, error) {
	i, ok := c.byID[id]
	if !ok {
		return SignalDefinition{}, fmt.Errorf("%w: %s", ErrUnknownSignal, id)
	}
	return c.definitions[i], nil
}

// Order returns the declaration index of a signal id, used as the stable
// tie-break when ordering explanations.
func (c *Catalog) Order(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return len(c.definitions)
}

// Validate checks that every detector's id resolves in the catalog. Run once
// at startup; a failure means the build shipped a detector without a catalog
// entry and must abort.
func (c *Catalog) Validate(detectors []Detector) error {
	for _, d := range detectors {
		if _, err := c.Lookup(d.ID()); err != nil {
			return fmt.Errorf("detector %q not registered in catalog: %w", d.ID(), err)
		}
	}
	return nil
}
