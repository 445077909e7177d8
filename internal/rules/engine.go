// Package rules implements the deterministic heuristic classifier. It is the
// unconditional fallback path: no file loads, no network, never fails.
package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

// AmountConditionType represents the type of amount comparison.
type AmountConditionType string

// Amount condition constants.
const (
	AmountLessThan     AmountConditionType = "lt"
	AmountLessEqual    AmountConditionType = "le"
	AmountEqual        AmountConditionType = "eq"
	AmountGreaterEqual AmountConditionType = "ge"
	AmountGreaterThan  AmountConditionType = "gt"
	AmountRange        AmountConditionType = "range"
	AmountAny          AmountConditionType = "any"
)

// Rule matches transactions by merchant pattern and optional amount
// condition, and carries a fixed confidence. Heuristics are not
// probabilistic; the confidence is a constant chosen per rule.
type Rule struct {
	AmountValue     *float64
	AmountMin       *float64
	AmountMax       *float64
	Name            string
	MerchantPattern string // regex, matched against lower-cased text
	Category        string
	AmountCondition AmountConditionType
	Priority        int
	Confidence      float64
}

// Engine evaluates transactions against an ordered rule set.
type Engine struct {
	compiled map[int]*regexp.Regexp
	rules    []Rule
}

// NewEngine creates an engine with the given rules. Regex patterns are
// pre-compiled; rules with invalid patterns never match.
func NewEngine(ruleSet []Rule) *Engine {
	rules := make([]Rule, len(ruleSet))
	copy(rules, ruleSet)

	// Higher priority first; name breaks ties for stable order.
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].Name < rules[j].Name
	})

	e := &Engine{
		rules:    rules,
		compiled: make(map[int]*regexp.Regexp, len(rules)),
	}
	for i, rule := range rules {
		if rule.MerchantPattern == "" {
			continue
		}
		if re, err := regexp.Compile(rule.MerchantPattern); err == nil {
			e.compiled[i] = re
		}
	}
	return e
}

// NewDefaultEngine creates an engine with the built-in rule set.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules())
}

// Classify returns the category of the highest-priority matching rule along
// with that rule's confidence. If no rule matches it returns the unknown
// category with confidence 0. It always succeeds.
func (e *Engine) Classify(txn model.Transaction) (string, float64) {
	text := strings.ToLower(txn.MerchantName)
	if text == "" {
		text = strings.ToLower(txn.Name)
	} else if txn.Name != "" {
		text = text + " " + strings.ToLower(txn.Name)
	}

	for i, rule := range e.rules {
		if !e.matchesMerchant(i, rule, text) {
			continue
		}
		if !matchesAmount(txn.Amount, rule) {
			continue
		}
		return rule.Category, rule.Confidence
	}

	return model.UnknownCategory, 0
}

func (e *Engine) matchesMerchant(idx int, rule Rule, text string) bool {
	if rule.MerchantPattern == "" {
		return true // no merchant pattern means match all
	}
	re, ok := e.compiled[idx]
	if !ok {
		return false
	}
	return re.MatchString(text)
}

func matchesAmount(amount float64, rule Rule) bool {
	switch rule.AmountCondition {
	case AmountAny, "":
		return true
	case AmountLessThan:
		return rule.AmountValue != nil && amount < *rule.AmountValue
	case AmountLessEqual:
		return rule.AmountValue != nil && amount <= *rule.AmountValue
	case AmountEqual:
		return rule.AmountValue != nil && amount == *rule.AmountValue
	case AmountGreaterEqual:
		return rule.AmountValue != nil && amount >= *rule.AmountValue
	case AmountGreaterThan:
		return rule.AmountValue != nil && amount > *rule.AmountValue
	case AmountRange:
		if rule.AmountMin != nil && amount < *rule.AmountMin {
			return false
		}
		if rule.AmountMax != nil && amount > *rule.AmountMax {
			return false
		}
		return true
	}
	return false
}
