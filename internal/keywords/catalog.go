package keywords

import (
	"encoding/json"
	"os"
	"sync"

	"atscore/internal/errors"
)

// defaultIndustryTerms groups generic industry vocabulary by category. The
// analyzer uses these for term-coverage scoring and suggestions.
func defaultIndustryTerms() map[string][]string {
	return map[string][]string{
		"technical": {
			"api", "rest", "soap", "microservices", "scalable", "distributed",
			"cloud", "aws", "azure", "gcp", "docker", "kubernetes", "ci/cd",
			"agile", "scrum", "devops", "git", "version control",
		},
		"soft_skills": {
			"leadership", "communication", "teamwork", "problem solving",
			"analytical", "project management", "time management",
			"collaboration", "initiative", "adaptability",
		},
		"achievements": {
			"improved", "increased", "reduced", "launched", "developed",
			"implemented", "managed", "led", "created", "designed",
			"optimized", "streamlined", "automated",
		},
		"metrics": {
			"roi", "kpi", "metrics", "performance", "efficiency",
			"productivity", "revenue", "cost", "budget", "growth",
			"reduction", "improvement", "impact",
		},
	}
}

// defaultRoleKeywords maps role categories to weighted keywords used when a
// job description is classified into that role.
func defaultRoleKeywords() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"software_development": {
			"python": 0.8, "java": 0.7, "javascript": 0.7, "react": 0.6,
			"nodejs": 0.6, "aws": 0.7, "docker": 0.6, "kubernetes": 0.6,
			"microservices": 0.6, "ci/cd": 0.6, "git": 0.5, "agile": 0.5,
			"testing": 0.5, "rest api": 0.6, "sql": 0.6,
		},
		"data_science": {
			"python": 0.9, "r": 0.7, "sql": 0.7, "machine learning": 0.9,
			"deep learning": 0.8, "tensorflow": 0.7, "pytorch": 0.7,
			"pandas": 0.7, "numpy": 0.7, "scikit-learn": 0.7,
			"data visualization": 0.6, "statistics": 0.7, "nlp": 0.6,
			"computer vision": 0.6, "big data": 0.6, "spark": 0.6,
		},
		"product_management": {
			"product development": 0.8, "agile": 0.7, "scrum": 0.6,
			"roadmap": 0.7, "user research": 0.7, "product strategy": 0.8,
			"stakeholder management": 0.7, "kpi": 0.7, "analytics": 0.6,
			"a/b testing": 0.6, "product lifecycle": 0.7,
		},
		"marketing": {
			"digital marketing": 0.8, "content marketing": 0.7, "seo": 0.7,
			"sem": 0.6, "social media": 0.7, "marketing strategy": 0.8,
			"google analytics": 0.7, "conversion rate": 0.6, "crm": 0.6,
			"email marketing": 0.6, "campaign management": 0.7,
		},
	}
}

// catalogFile is the on-disk JSON shape for custom keyword catalogs. Both
// maps are optional; entries merge on top of the built-in defaults.
type catalogFile struct {
	IndustryTerms map[string][]string           `json:"industryTerms"`
	RoleKeywords  map[string]map[string]float64 `json:"roleKeywords"`
}

// Catalog holds the industry term vocabulary and weighted role keywords.
// It is safe for concurrent use; Reload swaps the contents atomically.
type Catalog struct {
	mu    sync.RWMutex
	path  string
	terms map[string][]string
	roles map[string]map[string]float64
}

// NewCatalog builds a Catalog from the built-in defaults, optionally merged
// with a custom JSON file. A missing file is not an error; a malformed one is.
func NewCatalog(path string) (*Catalog, error) {
	c := &Catalog{
		path:  path,
		terms: defaultIndustryTerms(),
		roles: defaultRoleKeywords(),
	}
	if path != "" {
		if err := c.Reload(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Reload re-reads the custom keyword file and merges it over the defaults.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read keyword catalog", err).WithContext("path", c.path)
	}

	var custom catalogFile
	if err := json.Unmarshal(data, &custom); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"invalid keyword catalog file", err).WithContext("path", c.path)
	}

	terms := defaultIndustryTerms()
	for category, list := range custom.IndustryTerms {
		terms[category] = append(terms[category], list...)
	}

	roles := defaultRoleKeywords()
	for role, kws := range custom.RoleKeywords {
		if _, ok := roles[role]; !ok {
			roles[role] = make(map[string]float64)
		}
		for kw, weight := range kws {
			roles[role][kw] = weight
		}
	}

	c.mu.Lock()
	c.terms = terms
	c.roles = roles
	c.mu.Unlock()
	return nil
}

// IndustryTerms returns the term list for one category.
func (c *Catalog) IndustryTerms(category string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.terms[category]
}

// Categories returns all term category names.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.terms))
	for category := range c.terms {
		out = append(out, category)
	}
	return out
}

// AllTerms returns every industry term across categories.
func (c *Catalog) AllTerms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, list := range c.terms {
		out = append(out, list...)
	}
	return out
}

// RoleKeywords returns the weighted keywords for a role, nil when the role
// is unknown.
func (c *Catalog) RoleKeywords(role string) map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kws, ok := c.roles[role]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(kws))
	for k, v := range kws {
		out[k] = v
	}
	return out
}

// Roles returns all role category names with weighted keyword sets.
func (c *Catalog) Roles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.roles))
	for role := range c.roles {
		out = append(out, role)
	}
	return out
}

// Path returns the custom catalog file path, empty when only defaults load.
func (c *Catalog) Path() string {
	return c.path
}
