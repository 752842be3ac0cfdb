package validation

import (
	"strings"
)

// Rule is one entry of a field's rule list, e.g. {Name: "min", Arg: "0.01"}.
type Rule struct {
	Name string
	Arg  string
}

func (r Rule) String() string {
	if r.Arg == "" {
		return r.Name
	}
	return r.Name + ":" + r.Arg
}

// ParseRule reads the "name" or "name:arg" notation.
func ParseRule(s string) Rule {
	name, arg, _ := strings.Cut(s, ":")
	return Rule{Name: strings.TrimSpace(name), Arg: arg}
}

// Rules parses each entry of specs with ParseRule.
func Rules(specs ...string) []Rule {
	out := make([]Rule, len(specs))
	for i, s := range specs {
		out[i] = ParseRule(s)
	}
	return out
}

// Target is the parsed form of a rule path. It is one of Field, Each or
// EachEach.
type Target interface {
	target()
}

// Field addresses a single value, possibly through a dotted path.
type Field struct{ Path string }

// Each addresses Child in every element of the list at Parent
// ("items.*.description").
type Each struct{ Parent, Child string }

// EachEach addresses every element of the list Child inside every element of
// the list Parent ("items.*.taxes.*").
type EachEach struct{ Parent, Child string }

func (Field) target()    {}
func (Each) target()     {}
func (EachEach) target() {}

// ParseTarget parses a rule path. Paths with more wildcards than EachEach
// supports are treated as plain fields and never match.
func ParseTarget(path string) Target {
	parent, rest, found := strings.Cut(path, ".*.")
	if !found {
		return Field{Path: path}
	}
	if child, ok := strings.CutSuffix(rest, ".*"); ok && !strings.Contains(child, "*") {
		return EachEach{Parent: parent, Child: child}
	}
	if strings.Contains(rest, "*") {
		return Field{Path: path}
	}
	return Each{Parent: parent, Child: rest}
}

// FieldRules binds a rule path to its rules.
type FieldRules struct {
	Path  string
	Rules []Rule
}

// RuleSet is an ordered list of field rules.
type RuleSet []FieldRules

// Merge returns base with extra applied. A path present in both takes the
// rules from extra; new paths are appended in order.
func (base RuleSet) Merge(extra RuleSet) RuleSet {
	out := make(RuleSet, len(base), len(base)+len(extra))
	copy(out, base)
	idx := make(map[string]int, len(out))
	for i, fr := range out {
		idx[fr.Path] = i
	}
	for _, fr := range extra {
		if i, ok := idx[fr.Path]; ok {
			out[i] = fr
			continue
		}
		idx[fr.Path] = len(out)
		out = append(out, fr)
	}
	return out
}
