package ctdf

const DefaultSituationPriority = 3

type Situation struct {
	Text     *string            `json:"text" groups:"basic"`
	Priority int                `json:"priority" groups:"basic"`
	Affects  []*SituationAffect `json:"affects" groups:"basic"`
}

type SituationAffectType string

const (
	SituationAffectTypeStop SituationAffectType = "stop"
	SituationAffectTypeLine SituationAffectType = "line"
)

type SituationAffect struct {
	Type SituationAffectType `json:"type" groups:"basic"`
	ID   string              `json:"id" groups:"basic"`
}

// AffectsOnlyStop is true when every stop this situation names is stopID.
// Line affects and situations without any stop affects always match.
func (s *Situation) AffectsOnlyStop(stopID string) bool {
	for _, affect := range s.Affects {
		if affect.Type == SituationAffectTypeStop && affect.ID != stopID {
			return false
		}
	}

	return true
}

type SituationsResult struct {
	Situations []*Situation `json:"situations" groups:"basic"`
}
