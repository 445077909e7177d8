// Package rollout decides, per request, which classification path serves
// the caller: the rule engine, the model, or the model in shadow comparison.
package rollout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// DefaultThreshold is the conservative minimum confidence used for any
// category without an explicit threshold, including categories first seen
// at inference time.
const DefaultThreshold = 0.80

// Config is one immutable snapshot of the rollout settings. Snapshots are
// swapped whole on reload; request-serving code never observes a partial
// update.
type Config struct {
	// Thresholds maps category name to the minimum model confidence
	// required before the model's opinion is trusted for that category.
	Thresholds map[string]float64

	ModelEnabled  bool
	ShadowEnabled bool

	// CanaryPercent of traffic (by stable bucket hash) is served the
	// model's decision. 0 with shadow enabled means compare-only.
	CanaryPercent int

	// DefaultThreshold applies to categories absent from Thresholds.
	DefaultThreshold float64
}

// Validate checks field ranges. A zero DefaultThreshold is replaced by the
// package default rather than rejected, so a minimal config file works.
func (c *Config) Validate() error {
	if c.CanaryPercent < 0 || c.CanaryPercent > 100 {
		return fmt.Errorf("%w: canary percent %d out of range [0,100]", common.ErrInvalidConfig, c.CanaryPercent)
	}
	if c.DefaultThreshold < 0 || c.DefaultThreshold > 1 {
		return fmt.Errorf("%w: default threshold %v out of range [0,1]", common.ErrInvalidConfig, c.DefaultThreshold)
	}
	if c.DefaultThreshold == 0 {
		c.DefaultThreshold = DefaultThreshold
	}
	if len(c.Thresholds) > 0 {
		// Config sources (YAML keys in particular) differ in casing from
		// model class labels; lookups are case-insensitive.
		normalized := make(map[string]float64, len(c.Thresholds))
		for label, t := range c.Thresholds {
			if t < 0 || t > 1 {
				return fmt.Errorf("%w: threshold %v for %q out of range [0,1]", common.ErrInvalidConfig, t, label)
			}
			normalized[strings.ToLower(label)] = t
		}
		c.Thresholds = normalized
	}
	return nil
}

// Threshold returns the minimum confidence for a category, falling back to
// the default for unmapped categories. Category names compare
// case-insensitively.
func (c Config) Threshold(label string) (t float64, mapped bool) {
	if t, ok := c.Thresholds[strings.ToLower(label)]; ok {
		return t, true
	}
	return c.DefaultThreshold, false
}

// ParseCanaryPercent parses the operator-facing canary setting: a number in
// [0,100], or the literals "disabled" (0) and "all" (100).
func ParseCanaryPercent(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled":
		return 0, nil
	case "all":
		return 100, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: canary percent %q", common.ErrInvalidConfig, s)
	}
	if n < 0 || n > 100 {
		return 0, fmt.Errorf("%w: canary percent %d out of range [0,100]", common.ErrInvalidConfig, n)
	}
	return n, nil
}
