package analysis

import "time"

type Kind string

const (
	KindResume      Kind = "curriculo"
	KindPersonality Kind = "mbti"
)

// Skill is one competency extracted from a resume, scored by the remote
// analysis backend.
type Skill struct {
	Name           string  `json:"name"`
	Risk           float64 `json:"risk"`
	Longevity      string  `json:"longevity"`
	YearsRemaining *int    `json:"years_remaining,omitempty"`
	Category       string  `json:"category"`
}

// TransitionRoute is an upcycling suggestion: origin skill, through a
// micro-skill, to a target competency.
type TransitionRoute struct {
	OriginSkill      string  `json:"origin_skill"`
	TargetCompetency string  `json:"target_competency"`
	MicroSkill       string  `json:"micro_skill"`
	EstimatedHours   int     `json:"estimated_hours"`
	LongevityGain    float64 `json:"longevity_gain"`
	RouteType        string  `json:"route_type"`
}

type Resume struct {
	ID             int64             `json:"id"`
	UserID         *int64            `json:"user_id,omitempty"`
	Kind           Kind              `json:"kind"`
	LongevityScore float64           `json:"longevity_score"`
	AtRiskCount    int               `json:"at_risk_count"`
	StableCount    int               `json:"stable_count"`
	Message        string            `json:"message"`
	Skills         []Skill           `json:"skills"`
	Routes         []TransitionRoute `json:"routes"`
	CreatedAt      time.Time         `json:"created_at"`
}

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date,omitempty"`
}
