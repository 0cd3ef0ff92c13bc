// Package classification decides whether a notification email describes
// money coming in or going out.
package classification

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// ErrEmptyPattern is returned when a pattern has no keywords.
var ErrEmptyPattern = errors.New("pattern has no keywords")

// Pattern is a named set of keywords that implies a transaction type.
type Pattern struct {
	Name     string
	Type     model.TransactionType
	Keywords []string
	Priority int // Higher priority patterns are checked first
}

// CompiledPattern holds a compiled whole-word regex with its pattern.
type CompiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// Match is the pattern that classified a piece of text.
type Match struct {
	PatternName string
	Keyword     string
	Type        model.TransactionType
}

// PatternDetector classifies text with a fixed, priority-ordered list of
// keyword patterns. It is immutable after construction and safe for
// concurrent use.
type PatternDetector struct {
	patterns []CompiledPattern
}

// NewPatternDetector compiles patterns into whole-word matchers.
func NewPatternDetector(patterns []Pattern) (*PatternDetector, error) {
	compiled := make([]CompiledPattern, 0, len(patterns))

	for _, p := range patterns {
		regex, err := compileKeywords(p.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, CompiledPattern{
			Pattern:       p,
			compiledRegex: regex,
		})
	}

	// Stable so equal priorities keep declaration order.
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &PatternDetector{patterns: compiled}, nil
}

// compileKeywords builds `\b(?:kw1|kw2|...)\b` so that "keluarga" never
// matches "keluar".
func compileKeywords(keywords []string) (*regexp.Regexp, error) {
	if len(keywords) == 0 {
		return nil, ErrEmptyPattern
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return nil, ErrEmptyPattern
		}
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}

	return regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Match returns the highest-priority pattern found in text, or nil.
func (pd *PatternDetector) Match(text string) *Match {
	searchText := strings.ToLower(text)

	for _, pattern := range pd.patterns {
		if kw := pattern.compiledRegex.FindString(searchText); kw != "" {
			return &Match{
				PatternName: pattern.Name,
				Keyword:     kw,
				Type:        pattern.Type,
			}
		}
	}

	return nil
}

// Classify returns the transaction type implied by subject and body.
// Every input gets exactly one type; text matching no pattern is TypeUnknown.
func (pd *PatternDetector) Classify(subject, body string) model.TransactionType {
	if m := pd.Match(subject + " " + body); m != nil {
		return m.Type
	}
	return model.TypeUnknown
}

// PatternCount returns the number of loaded patterns.
func (pd *PatternDetector) PatternCount() int {
	return len(pd.patterns)
}
