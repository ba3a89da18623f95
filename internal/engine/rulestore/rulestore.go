// Package rulestore loads and holds the classification rule tables: the exact
// match table, ordered keyword and regex rules, extension/filename hints,
// primary-framework sets, supporting-tool groups, and category display
// metadata. A Store is immutable after Load and safe to share across
// concurrent categorization runs. Rules live in YAML so they can be edited
// and reloaded without touching pipeline code.
package rulestore

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/stacklens/internal/model"
)

//go:embed rules.yaml
var defaultRules []byte

// LoadError reports malformed rule configuration. It is fatal to Store
// construction: an engine without a Store answers every call in fallback mode.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rulestore: %s: %v", e.Reason, e.Err)
	}
	return "rulestore: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// Rule is one matched classification outcome. Metadata is shared with the
// Store; callers must copy before mutating.
type Rule struct {
	Category    string
	Subcategory string
	Confidence  float64
	Metadata    map[string]string
	Kind        model.MatchKind
}

type keywordRule struct {
	keywords []string
	rule     Rule
}

type regexRule struct {
	re   *regexp.Regexp
	rule Rule
}

// SubcategoryDef is display metadata for one subcategory.
type SubcategoryDef struct {
	Name        string
	DisplayName string
	Icon        string
}

// CategoryDef is display metadata for one main category, with its ordered
// subcategory definitions.
type CategoryDef struct {
	Name          string
	Meta          model.DisplayMeta
	EmptyMessage  string
	Subcategories []SubcategoryDef
}

type group struct {
	name    string
	members map[string]bool
}

// Store holds all classification rules and display metadata.
type Store struct {
	categories []CategoryDef
	subIndex   map[string]map[string]bool // category -> subcategory set

	exact     map[string]Rule
	keyword   []keywordRule
	regex     []regexRule
	extHints  map[string]hint
	fileHints map[string]hint

	primary map[string]map[string]bool // category -> primary framework keys
	groups  []group

	ruleCount int
}

type hint struct {
	key  string // technology identity the hint resolves to
	rule Rule
}

// Load builds a Store from the rule tables shipped with the engine.
func Load() (*Store, error) {
	return Parse(defaultRules)
}

// LoadFile builds a Store from an external rule file. The file replaces the
// shipped tables wholesale; reloading means constructing a new Store.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Reason: "read " + path, Err: err}
	}
	return Parse(data)
}

// Parse builds and validates a Store from YAML rule configuration.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "parse rules", Err: err}
	}

	s := &Store{
		subIndex:  make(map[string]map[string]bool),
		exact:     make(map[string]Rule),
		extHints:  make(map[string]hint),
		fileHints: make(map[string]hint),
		primary:   make(map[string]map[string]bool),
	}

	if err := s.loadCategories(doc.Categories); err != nil {
		return nil, err
	}
	if err := s.loadRules(doc.Rules); err != nil {
		return nil, err
	}
	if err := s.loadHints(doc.Hints); err != nil {
		return nil, err
	}
	if err := s.loadFrameworks(doc.Frameworks); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadCategories(defs []categoryDoc) error {
	if len(defs) != len(model.CategoryOrder) {
		return &LoadError{Reason: fmt.Sprintf("expected %d categories, got %d", len(model.CategoryOrder), len(defs))}
	}
	for i, d := range defs {
		if d.Name != model.CategoryOrder[i] {
			return &LoadError{Reason: fmt.Sprintf("category %d must be %q, got %q", i, model.CategoryOrder[i], d.Name)}
		}
		if len(d.Subcategories) == 0 {
			return &LoadError{Reason: "category " + d.Name + " has no subcategories"}
		}
		subs := make(map[string]bool, len(d.Subcategories))
		var subDefs []SubcategoryDef
		for _, sub := range d.Subcategories {
			if sub.Name == "" {
				return &LoadError{Reason: "category " + d.Name + " has a subcategory without a name"}
			}
			if subs[sub.Name] {
				return &LoadError{Reason: "category " + d.Name + " defines subcategory " + sub.Name + " twice"}
			}
			subs[sub.Name] = true
			subDefs = append(subDefs, SubcategoryDef{
				Name:        sub.Name,
				DisplayName: sub.DisplayName,
				Icon:        sub.Icon,
			})
		}
		s.subIndex[d.Name] = subs
		s.categories = append(s.categories, CategoryDef{
			Name: d.Name,
			Meta: model.DisplayMeta{
				DisplayName: d.DisplayName,
				Icon:        d.Icon,
				Description: d.Description,
				Color:       d.Color,
			},
			EmptyMessage:  d.EmptyStateMessage,
			Subcategories: subDefs,
		})
	}
	return nil
}

func (s *Store) loadRules(docs ruleTables) error {
	for _, d := range docs.Exact {
		r, err := s.newRule(d.ruleTarget, model.MatchExact)
		if err != nil {
			return err
		}
		if d.Pattern == "" {
			return &LoadError{Reason: "exact rule with empty pattern"}
		}
		if _, dup := s.exact[d.Pattern]; dup {
			return &LoadError{Reason: "duplicate exact pattern " + d.Pattern}
		}
		s.exact[d.Pattern] = r
		s.ruleCount++
	}
	for i, d := range docs.Keyword {
		r, err := s.newRule(d.ruleTarget, model.MatchKeyword)
		if err != nil {
			return err
		}
		if len(d.Keywords) == 0 {
			return &LoadError{Reason: fmt.Sprintf("keyword rule %d has no keywords", i)}
		}
		s.keyword = append(s.keyword, keywordRule{keywords: d.Keywords, rule: r})
		s.ruleCount++
	}
	for _, d := range docs.Regex {
		r, err := s.newRule(d.ruleTarget, model.MatchRegex)
		if err != nil {
			return err
		}
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return &LoadError{Reason: "regex rule " + d.Pattern, Err: err}
		}
		s.regex = append(s.regex, regexRule{re: re, rule: r})
		s.ruleCount++
	}
	return nil
}

func (s *Store) loadHints(docs hintTables) error {
	load := func(entries []hintDoc, into map[string]hint, kind string) error {
		for _, d := range entries {
			r, err := s.newRule(d.ruleTarget, model.MatchHint)
			if err != nil {
				return err
			}
			if d.Pattern == "" || d.Name == "" {
				return &LoadError{Reason: kind + " hint needs both pattern and name"}
			}
			if _, dup := into[d.Pattern]; dup {
				return &LoadError{Reason: "duplicate " + kind + " hint " + d.Pattern}
			}
			into[d.Pattern] = hint{key: d.Name, rule: r}
			s.ruleCount++
		}
		return nil
	}
	if err := load(docs.Extensions, s.extHints, "extension"); err != nil {
		return err
	}
	return load(docs.Filenames, s.fileHints, "filename")
}

func (s *Store) loadFrameworks(docs frameworkTables) error {
	for category, keys := range docs.Primary {
		if s.subIndex[category] == nil {
			return &LoadError{Reason: "primary framework set references unknown category " + category}
		}
		set := make(map[string]bool, len(keys))
		for _, k := range keys {
			set[k] = true
		}
		s.primary[category] = set
	}
	seen := make(map[string]bool)
	for _, g := range docs.Groups {
		if g.Name == "" || len(g.Members) == 0 {
			return &LoadError{Reason: "supporting-tool group needs a name and members"}
		}
		if seen[g.Name] {
			return &LoadError{Reason: "duplicate supporting-tool group " + g.Name}
		}
		seen[g.Name] = true
		members := make(map[string]bool, len(g.Members))
		for _, m := range g.Members {
			members[m] = true
		}
		s.groups = append(s.groups, group{name: g.Name, members: members})
	}
	return nil
}

// newRule validates the shared target fields of any rule kind.
func (s *Store) newRule(t ruleTarget, kind model.MatchKind) (Rule, error) {
	subs, ok := s.subIndex[t.Category]
	if !ok {
		return Rule{}, &LoadError{Reason: "rule references unknown category " + t.Category}
	}
	if !subs[t.Subcategory] {
		return Rule{}, &LoadError{Reason: fmt.Sprintf("rule references unknown subcategory %s/%s", t.Category, t.Subcategory)}
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return Rule{}, &LoadError{Reason: fmt.Sprintf("rule confidence %v outside [0,1]", t.Confidence)}
	}
	return Rule{
		Category:    t.Category,
		Subcategory: t.Subcategory,
		Confidence:  t.Confidence,
		Metadata:    t.Metadata,
		Kind:        kind,
	}, nil
}

// Exact looks the key up in the exact-match table.
func (s *Store) Exact(key string) (Rule, bool) {
	r, ok := s.exact[key]
	return r, ok
}

// Keyword returns the first registered keyword rule whose keyword set matches
// the key by containment. Registration order is the tie-break.
func (s *Store) Keyword(key string) (Rule, bool) {
	for _, kr := range s.keyword {
		for _, kw := range kr.keywords {
			if contains(key, kw) {
				return kr.rule, true
			}
		}
	}
	return Rule{}, false
}

// Regex returns the first registered regex rule matching the key.
func (s *Store) Regex(key string) (Rule, bool) {
	for _, rr := range s.regex {
		if rr.re.MatchString(key) {
			return rr.rule, true
		}
	}
	return Rule{}, false
}

// ExtensionHint resolves a known file extension (".py") to its technology
// identity. The returned key replaces the signal's own, so an extension signal
// merges with a directly named signal for the same technology.
func (s *Store) ExtensionHint(ext string) (string, Rule, bool) {
	h, ok := s.extHints[ext]
	return h.key, h.rule, ok
}

// FilenameHint resolves a known configuration filename ("docker-compose.yml").
func (s *Store) FilenameHint(name string) (string, Rule, bool) {
	h, ok := s.fileHints[name]
	return h.key, h.rule, ok
}

// IsPrimary reports whether key is in the category's curated primary-framework set.
func (s *Store) IsPrimary(category, key string) bool {
	return s.primary[category][key]
}

// GroupOf returns the first supporting-tool group containing key, in
// registration order.
func (s *Store) GroupOf(key string) (string, bool) {
	for _, g := range s.groups {
		if g.members[key] {
			return g.name, true
		}
	}
	return "", false
}

// ExactPatterns returns every pattern registered in the exact-match table.
func (s *Store) ExactPatterns() []string {
	patterns := make([]string, 0, len(s.exact))
	for p := range s.exact {
		patterns = append(patterns, p)
	}
	return patterns
}

// Categories returns the category definitions in display order.
func (s *Store) Categories() []CategoryDef {
	return s.categories
}

// RuleCount reports how many rules the Store holds.
func (s *Store) RuleCount() int {
	return s.ruleCount
}

func contains(key, kw string) bool {
	return kw != "" && strings.Contains(key, kw)
}
