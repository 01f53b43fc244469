package feed

import (
	"fmt"
	"maps"
)

// ChangeFreq is a sitemap <changefreq> value.
type ChangeFreq string

// Change frequencies used by the site.
const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
)

func (f ChangeFreq) valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Rule holds the crawl hints for one path.
type Rule struct {
	Priority   float64    `mapstructure:"priority" yaml:"priority"`
	ChangeFreq ChangeFreq `mapstructure:"changefreq" yaml:"changefreq"`
}

// Validate checks the priority range and the frequency value.
func (r Rule) Validate() error {
	if r.Priority < 0 || r.Priority > 1 {
		return fmt.Errorf("priority %.2f out of range [0,1]", r.Priority)
	}
	if !r.ChangeFreq.valid() {
		return fmt.Errorf("unknown changefreq %q", r.ChangeFreq)
	}
	return nil
}

// Rules maps static paths to crawl hints. Paths not in ByPath get Fallback.
type Rules struct {
	ByPath   map[string]Rule
	Fallback Rule
}

// DefaultRules returns the editorial table the site ships with.
func DefaultRules() Rules {
	return Rules{
		ByPath: map[string]Rule{
			"/":          {Priority: 1.0, ChangeFreq: Daily},
			"/playbooks": {Priority: 0.9, ChangeFreq: Weekly},
			"/blog":      {Priority: 0.9, ChangeFreq: Weekly},
			"/platform":  {Priority: 0.8, ChangeFreq: Weekly},
			"/community": {Priority: 0.8, ChangeFreq: Weekly},
			"/search":    {Priority: 0.8, ChangeFreq: Weekly},
			"/about":     {Priority: 0.7, ChangeFreq: Monthly},
			"/roadmap":   {Priority: 0.7, ChangeFreq: Monthly},
		},
		Fallback: Rule{Priority: 0.3, ChangeFreq: Yearly},
	}
}

// Lookup returns the rule for path.
func (r Rules) Lookup(path string) Rule {
	if rule, ok := r.ByPath[path]; ok {
		return rule
	}
	return r.Fallback
}

// Merge returns a copy of r with overrides applied on top. r is not modified.
func (r Rules) Merge(overrides map[string]Rule) (Rules, error) {
	out := Rules{ByPath: maps.Clone(r.ByPath), Fallback: r.Fallback}
	if out.ByPath == nil {
		out.ByPath = make(map[string]Rule, len(overrides))
	}
	for path, rule := range overrides {
		if err := rule.Validate(); err != nil {
			return Rules{}, fmt.Errorf("sitemap rule %q: %w", path, err)
		}
		out.ByPath[path] = rule
	}
	return out, nil
}
