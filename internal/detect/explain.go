package detect

import (
	"fmt"
	"sort"
	"strings"
)

// Compose renders explanations for triggered signals, ordered by severity
// descending and then by catalog declaration order, so the most actionable
// information comes first regardless of detector evaluation order. Identical
// rendered strings are deduplicated, keeping the first occurrence. The
// returned signal ids follow the same ordering.
func Compose(catalog *Catalog, triggered []SignalResult) ([]string, []string, error) {
	ordered := make([]SignalResult, len(triggered))
	copy(ordered, triggered)

	defs := make(map[string]SignalDefinition, len(ordered))
	for _, res := range ordered {
		def, err := catalog.Lookup(res.ID)
		if err != nil {
			return nil, nil, err
		}
		defs[res.ID] = def
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := defs[ordered[i].ID].Severity, defs[ordered[j].ID].Severity
		if si != sj {
			return si > sj
		}
		return catalog.Order(ordered[i].ID) < catalog.Order(ordered[j].ID)
	})

	explanations := make([]string, 0, len(ordered))
	signals := make([]string, 0, len(ordered))
	seen := make(map[string]struct{}, len(ordered))
	for _, res := range ordered {
		rendered := render(defs[res.ID].Template, res.Detail)
		if _, dup := seen[rendered]; dup {
			continue
		}
		seen[rendered] = struct{}{}
		explanations = append(explanations, rendered)
		signals = append(signals, res.ID)
	}

	return explanations, signals, nil
}

func render(template, detail string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	if detail == "" {
		detail = "unknown"
	}
	return fmt.Sprintf(template, detail)
}
