package schema

import (
	"errors"
	"fmt"

	"github.com/spektr-org/dashboards/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset
// ============================================================================
// Each dashboard declares its table schema up front. The declaration drives
// display names, the `schema` CLI command, and a fail-fast check that the
// bound view really exposes every declared key.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Groupable   bool   `json:"groupable" yaml:"groupable"`
	Filterable  bool   `json:"filterable" yaml:"filterable"`
	Searchable  bool   `json:"searchable,omitempty" yaml:"searchable,omitempty"` // substring search allowed
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key" yaml:"key"`
	DisplayName        string   `json:"displayName" yaml:"displayName"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Unit               string   `json:"unit,omitempty" yaml:"unit,omitempty"` // "points", "units", "degrees"
	DerivedFrom        []string `json:"derivedFrom,omitempty" yaml:"derivedFrom,omitempty"`
	Aggregations       []string `json:"aggregations,omitempty" yaml:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty" yaml:"defaultAggregation,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName, unit string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Unit:               unit,
		Aggregations:       []string{"sum", "avg", "min", "max"},
		DefaultAggregation: "avg",
	}
}

// DerivedMeasure creates a MeasureMeta computed from other measures.
func DerivedMeasure(key, displayName, unit, aggregation string, from ...string) MeasureMeta {
	m := DefaultMeasure(key, displayName, unit)
	m.DerivedFrom = from
	m.DefaultAggregation = aggregation
	return m
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// HasMeasure reports whether key is a declared measure.
func (c Config) HasMeasure(key string) bool {
	for _, m := range c.Measures {
		if m.Key == key {
			return true
		}
	}
	return false
}

// DisplayName returns the display name of a dimension or measure, or the key
// itself when undeclared.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// Validate checks the declaration itself: non-empty, unique keys, and derived
// measures that only reference declared measures.
func (c Config) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("schema name is empty"))
	}

	seen := make(map[string]bool)
	for _, k := range append(c.DimensionKeys(), c.MeasureKeys()...) {
		if k == "" {
			errs = append(errs, errors.New("empty field key"))
			continue
		}
		if seen[k] {
			errs = append(errs, fmt.Errorf("duplicate field key %q", k))
		}
		seen[k] = true
	}

	for _, m := range c.Measures {
		for _, src := range m.DerivedFrom {
			if !c.HasMeasure(src) {
				errs = append(errs, fmt.Errorf("measure %q derives from undeclared %q", m.Key, src))
			}
		}
	}
	return errors.Join(errs...)
}

// MustMatch panics unless view exposes every declared dimension and measure.
// A mismatch means the adapter and the declaration drifted apart.
func (c Config) MustMatch(view engine.RecordView) {
	for _, k := range c.DimensionKeys() {
		if !engine.HasDimension(view, k) {
			panic(fmt.Sprintf("schema %s: view lacks dimension %q", c.Name, k))
		}
	}
	for _, k := range c.MeasureKeys() {
		if !engine.HasMeasure(view, k) {
			panic(fmt.Sprintf("schema %s: view lacks measure %q", c.Name, k))
		}
	}
}
