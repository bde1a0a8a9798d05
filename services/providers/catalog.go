package providers

// Provider families known to the gateway
const (
	FamilyGemini    = "gemini"
	FamilyOpenAI    = "openai"
	FamilyAnthropic = "anthropic"
)

// LatencyClass is a coarse response-time tag
type LatencyClass string

const (
	LatencyFast   LatencyClass = "fast"
	LatencyMedium LatencyClass = "medium"
	LatencySlow   LatencyClass = "slow"
)

// QualityClass is a coarse output-quality tag
type QualityClass string

const (
	QualityGood      QualityClass = "good"
	QualityExcellent QualityClass = "excellent"
	QualityBest      QualityClass = "best"
)

// rank orders quality classes; unknown tags sort lowest
func (q QualityClass) rank() int {
	switch q {
	case QualityBest:
		return 3
	case QualityExcellent:
		return 2
	case QualityGood:
		return 1
	default:
		return 0
	}
}

// ModelDescriptor is the static metadata of one selectable model
type ModelDescriptor struct {
	ID                   string       `json:"id"`
	DisplayName          string       `json:"display_name"`
	Provider             string       `json:"provider"`
	CostPerMillionTokens float64      `json:"cost_per_million_tokens"`
	Latency              LatencyClass `json:"latency"`
	Quality              QualityClass `json:"quality"`
	MaxOutputTokens      int          `json:"max_output_tokens"`
}

// Catalog is an ordered, read-only list of model descriptors.
// Order is significant: it breaks cost ties.
type Catalog []ModelDescriptor

// DefaultCatalog returns the models the gateway ships with
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:                   "gemini-1.5-flash",
			DisplayName:          "Gemini 1.5 Flash",
			Provider:             FamilyGemini,
			CostPerMillionTokens: 0.075,
			Latency:              LatencyFast,
			Quality:              QualityGood,
			MaxOutputTokens:      8192,
		},
		{
			ID:                   "gpt-4o",
			DisplayName:          "GPT-4o",
			Provider:             FamilyOpenAI,
			CostPerMillionTokens: 2.50,
			Latency:              LatencyMedium,
			Quality:              QualityExcellent,
			MaxOutputTokens:      4096,
		},
		{
			ID:                   "claude-3-5-sonnet-20241022",
			DisplayName:          "Claude 3.5 Sonnet",
			Provider:             FamilyAnthropic,
			CostPerMillionTokens: 3.00,
			Latency:              LatencyMedium,
			Quality:              QualityBest,
			MaxOutputTokens:      8192,
		},
	}
}

// DefaultFallbackModel is the model retried after a primary failure
const DefaultFallbackModel = "gemini-1.5-flash"

// Lookup returns the descriptor for a model ID
func (c Catalog) Lookup(id string) (ModelDescriptor, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return ModelDescriptor{}, false
}

// FilterProviders keeps descriptors whose family satisfies keep, preserving order
func (c Catalog) FilterProviders(keep func(family string) bool) Catalog {
	out := make(Catalog, 0, len(c))
	for _, d := range c {
		if keep(d.Provider) {
			out = append(out, d)
		}
	}
	return out
}

// Cheapest returns the lowest-cost descriptor; ties go to the earliest entry
func (c Catalog) Cheapest() (ModelDescriptor, bool) {
	return c.cheapestWhere(func(ModelDescriptor) bool { return true })
}

// CheapestWithLatency returns the lowest-cost descriptor with the given latency tag
func (c Catalog) CheapestWithLatency(l LatencyClass) (ModelDescriptor, bool) {
	return c.cheapestWhere(func(d ModelDescriptor) bool { return d.Latency == l })
}

// CheapestWithQuality returns the lowest-cost descriptor with the given quality tag
func (c Catalog) CheapestWithQuality(q QualityClass) (ModelDescriptor, bool) {
	return c.cheapestWhere(func(d ModelDescriptor) bool { return d.Quality == q })
}

// HighestQuality returns the descriptor with the best quality tag, ties broken by cost
func (c Catalog) HighestQuality() (ModelDescriptor, bool) {
	var (
		best  ModelDescriptor
		found bool
	)
	for _, d := range c {
		if !found ||
			d.Quality.rank() > best.Quality.rank() ||
			(d.Quality.rank() == best.Quality.rank() && d.CostPerMillionTokens < best.CostPerMillionTokens) {
			best = d
			found = true
		}
	}
	return best, found
}

func (c Catalog) cheapestWhere(match func(ModelDescriptor) bool) (ModelDescriptor, bool) {
	var (
		best  ModelDescriptor
		found bool
	)
	for _, d := range c {
		if !match(d) {
			continue
		}
		if !found || d.CostPerMillionTokens < best.CostPerMillionTokens {
			best = d
			found = true
		}
	}
	return best, found
}
