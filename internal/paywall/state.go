package paywall

import (
	"encoding/json"
	"slices"
)

// StorageKey is the key the state blob is persisted under. Stores append
// ":<sessionID>" when a session is given.
const StorageKey = "apartmentiq-paywall-state"

// State is the persisted per-session gate state. Its JSON form is the
// stored wire format and must stay stable.
type State struct {
	PropertyViewCount       int      `json:"propertyViewCount"`
	PaywallImpressions      int      `json:"paywallImpressions"`
	LastImpressionTimestamp *int64   `json:"lastImpressionTimestamp"` // unix ms
	HasShownPaywall         bool     `json:"hasShownPaywall"`
	TriggeredBy             *string  `json:"triggeredBy"`
	UnlockedPropertyIDs     []string `json:"unlockedPropertyIds"`
	ActivePlan              *string  `json:"activePlan"`
}

// DefaultState is the state of a session that has never been seen.
func DefaultState() State {
	return State{UnlockedPropertyIDs: []string{}}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.UnlockedPropertyIDs = slices.Clone(s.UnlockedPropertyIDs)
	if out.UnlockedPropertyIDs == nil {
		out.UnlockedPropertyIDs = []string{}
	}
	if s.LastImpressionTimestamp != nil {
		ts := *s.LastImpressionTimestamp
		out.LastImpressionTimestamp = &ts
	}
	if s.TriggeredBy != nil {
		tb := *s.TriggeredBy
		out.TriggeredBy = &tb
	}
	if s.ActivePlan != nil {
		p := *s.ActivePlan
		out.ActivePlan = &p
	}
	return out
}

func (s State) HasActivePlan() bool {
	return s.ActivePlan != nil && *s.ActivePlan != ""
}

func (s State) IsUnlocked(propertyID string) bool {
	return slices.Contains(s.UnlockedPropertyIDs, propertyID)
}

// normalize repairs blobs written by older clients or by hand: negative
// counters, a missing or duplicated unlock list.
func (s *State) normalize() {
	if s.PropertyViewCount < 0 {
		s.PropertyViewCount = 0
	}
	if s.PaywallImpressions < 0 {
		s.PaywallImpressions = 0
	}
	seen := make(map[string]struct{}, len(s.UnlockedPropertyIDs))
	ids := make([]string, 0, len(s.UnlockedPropertyIDs))
	for _, id := range s.UnlockedPropertyIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	s.UnlockedPropertyIDs = ids
}

// Encode returns the stored JSON form of s. A nil unlock list is written as [].
func Encode(s State) ([]byte, error) {
	if s.UnlockedPropertyIDs == nil {
		s.UnlockedPropertyIDs = []string{}
	}
	return json.Marshal(s)
}

// Decode parses a stored blob and repairs it. On a parse error it returns
// DefaultState along with the error.
func Decode(data []byte) (State, error) {
	st := DefaultState()
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState(), err
	}
	st.normalize()
	return st, nil
}
