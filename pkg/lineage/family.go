package lineage

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Family is a coarse language-family bucket used for coloring and grouping.
type Family string

// FamilyOther is the fallback bucket for labels the table does not match.
const FamilyOther Family = "Other"

//go:embed families.yaml
var familiesYAML []byte

// familyEntry is one row of the classification table.
type familyEntry struct {
	Family   Family   `yaml:"family"`
	Patterns []string `yaml:"patterns"`
}

var (
	familyTable []familyEntry
	familyOnce  sync.Once
)

// table parses the embedded classification table once. The table ships
// inside the binary, so a parse failure is a build defect, not a runtime
// condition.
func table() []familyEntry {
	familyOnce.Do(func() {
		if err := yaml.Unmarshal(familiesYAML, &familyTable); err != nil {
			panic(fmt.Sprintf("lineage: embedded families.yaml is invalid: %v", err))
		}
	})
	return familyTable
}

// Classify maps a free-form language label to its [Family]. Matching is a
// case-insensitive substring scan in table order, first hit wins, so
// "Old English" and "Middle English" both land in Germanic. Unmatched
// labels classify as [FamilyOther].
func Classify(language string) Family {
	label := strings.ToLower(language)
	for _, entry := range table() {
		for _, pattern := range entry.Patterns {
			if strings.Contains(label, pattern) {
				return entry.Family
			}
		}
	}
	return FamilyOther
}

// Families returns every bucket in table order, ending with [FamilyOther].
// Renderers use this to assign stable palette slots.
func Families() []Family {
	entries := table()
	out := make([]Family, 0, len(entries)+1)
	for _, entry := range entries {
		out = append(out, entry.Family)
	}
	return append(out, FamilyOther)
}
