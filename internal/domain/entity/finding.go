package entity

// Risk identifiers emitted by the risk engine. The catalogue must define
// all of them.
const (
	RiskFewAlternatives           = "1"
	RiskNoAlternatives            = "2"
	RiskFewSupportedAlternatives  = "3"
	RiskNoSupportedAlternatives   = "4"
	RiskHighResourceCount         = "5"
	RiskVeryHighResourceCount     = "6"
	RiskHighResourceTypeCount     = "7"
	RiskVeryHighResourceTypeCount = "8"
)

// RiskFinding ties a risk to a resource type, or to the whole account when
// ResourceTypeID is nil.
type RiskFinding struct {
	ResourceTypeID *string `json:"resource_type"`
	RiskID         string  `json:"risk"`
}

// AccountWide reports whether the finding is not tied to a resource type.
func (f RiskFinding) AccountWide() bool { return f.ResourceTypeID == nil }

// AlternativeMatch groups the active technologies matched to a resource type.
type AlternativeMatch struct {
	ResourceTypeID string                  `json:"resource_type"`
	Technologies   []AlternativeTechnology `json:"technologies"`
}

// AlternativeMatches keeps resource types in inventory encounter order.
type AlternativeMatches []AlternativeMatch

// For returns the technologies of a resource type. An empty slice with ok
// set means the type was matched and has no alternatives.
func (m AlternativeMatches) For(resourceTypeID string) ([]AlternativeTechnology, bool) {
	for _, match := range m {
		if match.ResourceTypeID == resourceTypeID {
			return match.Technologies, true
		}
	}
	return nil, false
}
