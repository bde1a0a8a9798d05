package routing

import (
	"fmt"
	"strings"

	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/services/providers"
)

// Strategy decides which catalog entry serves a request without an explicit model
type Strategy string

const (
	// StrategySmart maps each task type to a model role
	StrategySmart Strategy = "smart"

	// StrategyCostOptimized always picks the cheapest model
	StrategyCostOptimized Strategy = "cost-optimized"

	// StrategyQualityOptimized picks the cheapest model tagged best
	StrategyQualityOptimized Strategy = "quality-optimized"

	// StrategySpeedOptimized picks the cheapest model tagged fast
	StrategySpeedOptimized Strategy = "speed-optimized"
)

// Strategies lists every supported strategy
var Strategies = []Strategy{StrategySmart, StrategyCostOptimized, StrategyQualityOptimized, StrategySpeedOptimized}

// ParseStrategy validates a strategy name; empty selects smart
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StrategySmart, nil
	}
	for _, known := range Strategies {
		if Strategy(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown routing strategy %q", s)
}

// TaskType is a caller hint about the kind of text being generated.
// Unknown values are accepted and routed like TaskSimple.
type TaskType string

const (
	TaskSimple   TaskType = "simple"
	TaskCreative TaskType = "creative"
	TaskComplex  TaskType = "complex"
	TaskSEO      TaskType = "seo"
	TaskAnalysis TaskType = "analysis"
)

// KnownTaskTypes lists the task types with a dedicated routing rule
var KnownTaskTypes = []TaskType{TaskSimple, TaskCreative, TaskComplex, TaskSEO, TaskAnalysis}

// ParseTaskType normalizes a task type; empty means simple
func ParseTaskType(s string) TaskType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TaskSimple
	}
	return TaskType(s)
}

// IsKnown reports whether the task type has a dedicated routing rule
func (t TaskType) IsKnown() bool {
	for _, known := range KnownTaskTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SelectModel picks a descriptor from catalog for the given strategy and task.
// It does no I/O. A missing tag degrades to the cheapest descriptor; an empty
// catalog is a configuration error.
func SelectModel(catalog providers.Catalog, strategy Strategy, task TaskType) (providers.ModelDescriptor, error) {
	cheapest, ok := catalog.Cheapest()
	if !ok {
		return providers.ModelDescriptor{}, services.ErrNoBackendConfigured
	}

	or := func(d providers.ModelDescriptor, found bool) providers.ModelDescriptor {
		if found {
			return d
		}
		return cheapest
	}

	switch strategy {
	case StrategyCostOptimized:
		return cheapest, nil
	case StrategyQualityOptimized:
		return or(catalog.CheapestWithQuality(providers.QualityBest)), nil
	case StrategySpeedOptimized:
		return or(catalog.CheapestWithLatency(providers.LatencyFast)), nil
	}

	switch task {
	case TaskCreative:
		return or(catalog.CheapestWithQuality(providers.QualityExcellent)), nil
	case TaskComplex, TaskSEO, TaskAnalysis:
		return or(catalog.HighestQuality()), nil
	default:
		return or(catalog.CheapestWithLatency(providers.LatencyFast)), nil
	}
}
