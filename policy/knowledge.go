package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// KnowledgeStore names a knowledge index backing store.
type KnowledgeStore string

const (
	// KnowledgeStoreMemory keeps the index in memory only.
	KnowledgeStoreMemory KnowledgeStore = "memory"

	// KnowledgeStoreDisk persists the index under Path.
	KnowledgeStoreDisk KnowledgeStore = "disk"
)

// SearchType selects the knowledge query interpretation.
type SearchType string

const (
	// SearchTypeMatch performs analyzed full-text matching.
	SearchTypeMatch SearchType = "match"

	// SearchTypeQuery interprets the input as a query string with field
	// and boolean syntax.
	SearchTypeQuery SearchType = "query"
)

// Default knowledge retrieval settings.
const (
	DefaultKnowledgeIndexName  = "knowledge"
	DefaultKnowledgeMaxResults = 5
	DefaultKnowledgeMinScore   = 0.7
)

// KnowledgePolicy configures retrieval-augmented knowledge search.
type KnowledgePolicy struct {
	// Enabled turns knowledge retrieval on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Store selects the index backing store.
	Store KnowledgeStore `yaml:"store" json:"store"`

	// Path is the index path for the disk store.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// IndexName names the index.
	IndexName string `yaml:"indexName" json:"indexName"`

	// SearchType selects query interpretation.
	SearchType SearchType `yaml:"searchType" json:"searchType"`

	// MaxResults caps returned results. Range 1..50.
	MaxResults int `yaml:"maxResults" json:"maxResults"`

	// MinScore filters results below this relevance score. Range 0..1.
	MinScore float64 `yaml:"minScore" json:"minScore"`

	// Sources are file paths loaded into the knowledge base at assembly.
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// DefaultKnowledgePolicy returns the standard (disabled) knowledge
// configuration.
func DefaultKnowledgePolicy() KnowledgePolicy {
	return KnowledgePolicy{
		Enabled:    false,
		Store:      KnowledgeStoreMemory,
		IndexName:  DefaultKnowledgeIndexName,
		SearchType: SearchTypeMatch,
		MaxResults: DefaultKnowledgeMaxResults,
		MinScore:   DefaultKnowledgeMinScore,
	}
}

// Validate checks the policy. Failures wrap ErrConfiguration.
func (p KnowledgePolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Store, validation.Required,
			validation.In(KnowledgeStoreMemory, KnowledgeStoreDisk)),
		validation.Field(&p.Path,
			validation.Required.When(p.Store == KnowledgeStoreDisk).
				Error("required for the disk store")),
		validation.Field(&p.IndexName, validation.Required),
		validation.Field(&p.SearchType, validation.Required,
			validation.In(SearchTypeMatch, SearchTypeQuery)),
		validation.Field(&p.MaxResults, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&p.MinScore, validation.Min(0.0), validation.Max(1.0)),
	)
	return wrapConfig("knowledge", err)
}
