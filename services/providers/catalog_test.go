package providers

import "testing"

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	if len(catalog) != 3 {
		t.Fatalf("len(DefaultCatalog()) = %d, want 3", len(catalog))
	}

	seen := make(map[string]bool)
	for _, d := range catalog {
		if d.ID == "" || d.Provider == "" {
			t.Errorf("descriptor %+v has empty ID or provider", d)
		}
		if seen[d.ID] {
			t.Errorf("duplicate model ID %s", d.ID)
		}
		seen[d.ID] = true
	}

	if _, ok := catalog.Lookup(DefaultFallbackModel); !ok {
		t.Errorf("fallback model %s is not in the catalog", DefaultFallbackModel)
	}
}

func TestCatalog_Roles(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name string
		pick func() (ModelDescriptor, bool)
		want string
	}{
		{"cheapest", catalog.Cheapest, "gemini-1.5-flash"},
		{"cheapest fast", func() (ModelDescriptor, bool) { return catalog.CheapestWithLatency(LatencyFast) }, "gemini-1.5-flash"},
		{"cheapest excellent", func() (ModelDescriptor, bool) { return catalog.CheapestWithQuality(QualityExcellent) }, "gpt-4o"},
		{"highest quality", catalog.HighestQuality, "claude-3-5-sonnet-20241022"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.pick()
			if !ok {
				t.Fatal("expected a descriptor")
			}
			if got.ID != tt.want {
				t.Errorf("got %s, want %s", got.ID, tt.want)
			}
		})
	}
}

func TestCatalog_TiesKeepCatalogOrder(t *testing.T) {
	catalog := Catalog{
		{ID: "a", Provider: "x", CostPerMillionTokens: 1, Quality: QualityBest},
		{ID: "b", Provider: "y", CostPerMillionTokens: 1, Quality: QualityBest},
		{ID: "c", Provider: "y", CostPerMillionTokens: 0.5, Quality: QualityGood},
	}

	if got, _ := catalog.Cheapest(); got.ID != "c" {
		t.Errorf("Cheapest() = %s, want c", got.ID)
	}
	if got, _ := catalog.HighestQuality(); got.ID != "a" {
		t.Errorf("HighestQuality() = %s, want a", got.ID)
	}
	if got, _ := catalog.CheapestWithQuality(QualityBest); got.ID != "a" {
		t.Errorf("CheapestWithQuality(best) = %s, want a", got.ID)
	}
}

func TestCatalog_Empty(t *testing.T) {
	var catalog Catalog

	if _, ok := catalog.Cheapest(); ok {
		t.Error("Cheapest() on empty catalog should report false")
	}
	if _, ok := catalog.HighestQuality(); ok {
		t.Error("HighestQuality() on empty catalog should report false")
	}
	if _, ok := catalog.Lookup("gpt-4o"); ok {
		t.Error("Lookup() on empty catalog should report false")
	}
}

func TestCatalog_FilterProviders(t *testing.T) {
	catalog := DefaultCatalog()

	filtered := catalog.FilterProviders(func(family string) bool { return family != FamilyOpenAI })

	if len(filtered) != 2 {
		t.Fatalf("len(filtered) = %d, want 2", len(filtered))
	}
	if _, ok := filtered.Lookup("gpt-4o"); ok {
		t.Error("gpt-4o should have been filtered out")
	}
	if len(catalog) != 3 {
		t.Error("FilterProviders must not modify the receiver")
	}
}
