package llm

import "testing"

func TestLookupCost_CoversResolvedModels(t *testing.T) {
	// Every model the friendly-name maps resolve to must be priced.
	for _, models := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		for alias, id := range models {
			if LookupCost(id) == nil {
				t.Errorf("no pricing for %s (alias %s)", id, alias)
			}
		}
	}
}

func TestLookupCost_UnknownModel(t *testing.T) {
	if c := LookupCost("not-a-model"); c != nil {
		t.Fatalf("expected nil for unknown model, got %+v", c)
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 2, OutputPerMTok: 10}
	got := c.Cost(500_000, 100_000)
	if got != 2.0 {
		t.Fatalf("expected $2.00, got %f", got)
	}
}
