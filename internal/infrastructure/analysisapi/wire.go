package analysisapi

import (
	"fmt"
	"strings"
	"time"

	"skill-upcycle/internal/domain/analysis"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type signupRequest struct {
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Password  string `json:"senha"`
	BirthDate string `json:"dataNascimento"`
	Gender    string `json:"genero,omitempty"`
	Ethnicity string `json:"etnia,omitempty"`
	Answers   []int  `json:"respostas"`
}

type signupResponse struct {
	UsuarioID *int64 `json:"usuarioId"`
	ID        *int64 `json:"id"`
	UserID    *int64 `json:"userId"`
	Token     string `json:"token"`
}

type userPayload struct {
	ID        *int64 `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	BirthDate string `json:"dataNascimento,omitempty"`
}

type skillPayload struct {
	Name           string   `json:"nomeHabilidade"`
	Longevity      string   `json:"longevidade"`
	YearsRemaining *int     `json:"anosRestantes"`
	Risk           *float64 `json:"riscoObsolescencia"`
	Category       string   `json:"categoria"`
}

type routePayload struct {
	OriginSkill      string   `json:"habilidadeOrigem"`
	MicroSkill       string   `json:"microHabilidade"`
	TargetCompetency string   `json:"novaCompetencia"`
	EstimatedHours   int      `json:"horasEstimadas"`
	RouteType        string   `json:"tipoRota"`
	LongevityGain    *float64 `json:"ganhoLongevidade"`
}

type analysisPayload struct {
	ID             *int64         `json:"analiseId"`
	UserID         *int64         `json:"usuarioId"`
	LongevityScore *float64       `json:"scoreLongevidade"`
	AtRiskCount    int            `json:"habilidadesEmRisco"`
	StableCount    int            `json:"habilidadesEstaveis"`
	CreatedAt      string         `json:"criadoEm"`
	Date           string         `json:"data"`
	Message        string         `json:"mensagem"`
	Skills         []skillPayload `json:"habilidades"`
	Routes         []routePayload `json:"rotasUpcycling"`
	Kind           string         `json:"tipo"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// toDomain checks the payload against the contract the dashboard relies on
// and converts it. path prefixes field names in errors.
func (p analysisPayload) toDomain(path string) (analysis.Resume, error) {
	if p.ID == nil {
		return analysis.Resume{}, malformed(path+".analiseId", "missing")
	}
	if p.LongevityScore == nil {
		return analysis.Resume{}, malformed(path+".scoreLongevidade", "missing")
	}
	if s := *p.LongevityScore; s < 0 || s > 10 {
		return analysis.Resume{}, malformed(path+".scoreLongevidade", "%v outside [0,10]", s)
	}

	out := analysis.Resume{
		ID:             *p.ID,
		UserID:         p.UserID,
		Kind:           analysis.KindResume,
		LongevityScore: *p.LongevityScore,
		AtRiskCount:    p.AtRiskCount,
		StableCount:    p.StableCount,
		Message:        p.Message,
		Skills:         make([]analysis.Skill, 0, len(p.Skills)),
		Routes:         make([]analysis.TransitionRoute, 0, len(p.Routes)),
	}
	if strings.EqualFold(strings.TrimSpace(p.Kind), string(analysis.KindPersonality)) {
		out.Kind = analysis.KindPersonality
	}

	stamp := p.CreatedAt
	field := ".criadoEm"
	if strings.TrimSpace(stamp) == "" {
		stamp, field = p.Date, ".data"
	}
	if strings.TrimSpace(stamp) != "" {
		t, ok := parseTime(strings.TrimSpace(stamp))
		if !ok {
			return analysis.Resume{}, malformed(path+field, "unparseable time %q", stamp)
		}
		out.CreatedAt = t
	}

	for i, s := range p.Skills {
		sp := fmt.Sprintf("%s.habilidades[%d]", path, i)
		if strings.TrimSpace(s.Name) == "" {
			return analysis.Resume{}, malformed(sp+".nomeHabilidade", "missing")
		}
		if s.Risk == nil {
			return analysis.Resume{}, malformed(sp+".riscoObsolescencia", "missing")
		}
		if r := *s.Risk; r < 0 || r > 1 {
			return analysis.Resume{}, malformed(sp+".riscoObsolescencia", "%v outside [0,1]", r)
		}
		out.Skills = append(out.Skills, analysis.Skill{
			Name:           strings.TrimSpace(s.Name),
			Risk:           *s.Risk,
			Longevity:      s.Longevity,
			YearsRemaining: s.YearsRemaining,
			Category:       s.Category,
		})
	}

	for i, r := range p.Routes {
		if r.EstimatedHours < 0 {
			return analysis.Resume{}, malformed(fmt.Sprintf("%s.rotasUpcycling[%d].horasEstimadas", path, i), "negative")
		}
		route := analysis.TransitionRoute{
			OriginSkill:      strings.TrimSpace(r.OriginSkill),
			TargetCompetency: strings.TrimSpace(r.TargetCompetency),
			MicroSkill:       strings.TrimSpace(r.MicroSkill),
			EstimatedHours:   r.EstimatedHours,
			RouteType:        r.RouteType,
		}
		if r.LongevityGain != nil {
			route.LongevityGain = *r.LongevityGain
		}
		out.Routes = append(out.Routes, route)
	}
	return out, nil
}

func (p userPayload) toDomain() (analysis.User, error) {
	if p.ID == nil {
		return analysis.User{}, malformed("usuario.id", "missing")
	}
	return analysis.User{
		ID:        *p.ID,
		Name:      strings.TrimSpace(p.Name),
		Email:     strings.TrimSpace(p.Email),
		BirthDate: strings.TrimSpace(p.BirthDate),
	}, nil
}
