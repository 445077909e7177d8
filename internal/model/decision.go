package model

import "time"

// DecisionSource indicates which path produced the served suggestion.
type DecisionSource string

// Decision source constants.
const (
	SourceRule  DecisionSource = "rule"
	SourceModel DecisionSource = "model"
)

// ShadowAgreement records whether the rule and model paths agreed, when
// both were computed for the same transaction.
type ShadowAgreement string

// Shadow agreement constants.
const (
	ShadowAgree    ShadowAgreement = "agree"
	ShadowDisagree ShadowAgreement = "disagree"
	ShadowNA       ShadowAgreement = "n/a"
)

// UnknownCategory is served when no rule matches and the model path is
// unavailable or not trusted. Callers must handle it like any other label.
const UnknownCategory = "Unknown"

// Decision is the outcome of a single Suggest call. It is constructed once
// per request and never mutated afterwards.
type Decision struct {
	DecidedAt       time.Time
	Label           string
	Source          DecisionSource
	ShadowAgreement ShadowAgreement
	ModelVersion    string // empty when the model path was not used
	Confidence      float64
}
