package knowledge

import (
	"context"
	"fmt"

	provider "github.com/rjhall/agentrt/backend/local"
	"github.com/rjhall/agentrt/policy"
)

// BackendName is the provider name, and therefore the tool namespace, of
// the knowledge tool set.
const BackendName = "knowledge"

// New opens a knowledge base per the policy, loads its configured sources,
// and returns a provider exposing search_knowledge. Returns nils when the
// policy is disabled.
func New(p policy.KnowledgePolicy) (*provider.Backend, *Store, error) {
	if !p.Enabled {
		return nil, nil, nil
	}

	store, err := NewStore(p)
	if err != nil {
		return nil, nil, err
	}
	for _, source := range p.Sources {
		if _, err := store.AddSource(source); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	b := provider.New(BackendName, provider.ToolDef{
		Name:        "search_knowledge",
		Description: "Search the knowledge base for relevant documents.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []any{"query"},
		},
		Tags: []string{"knowledge", "search"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			results, err := store.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"query":   query,
				"results": results,
				"count":   len(results),
			}, nil
		},
	})
	return b, store, nil
}
