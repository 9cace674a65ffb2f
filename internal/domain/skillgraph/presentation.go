package skillgraph

// Node fill colours. Current skills take the colour of their risk tier.
const (
	ColorTarget   = "#22d3ee"
	ColorMicro    = "#94a3b8"
	ColorHighRisk = "#ef4444"
	ColorMidRisk  = "#fbbf24"
	ColorLowRisk  = "#10b981"

	// Node radii in layout units.
	RadiusTarget  = 35.0
	RadiusMicro   = 20.0
	RadiusCurrent = 28.0

	// EmptyStateMessage is shown in place of a map for an analysis with no skills.
	EmptyStateMessage = "Sem dados para gerar o mapa."
)

// RiskTier buckets an obsolescence risk for colouring and tooltips.
type RiskTier string

const (
	TierObsolete RiskTier = "obsolete"
	TierWatch    RiskTier = "watch"
	TierStable   RiskTier = "stable"
)

// RiskTierOf maps risk above 0.6 to obsolete, above 0.3 to watch and
// anything else to stable.
func RiskTierOf(risk float64) RiskTier {
	switch {
	case risk > 0.6:
		return TierObsolete
	case risk > 0.3:
		return TierWatch
	default:
		return TierStable
	}
}

// NodeColor is the fill for n. A current node without a risk counts as risk 0.
func NodeColor(n Node) string {
	switch n.Kind {
	case KindTarget:
		return ColorTarget
	case KindMicro:
		return ColorMicro
	}
	risk := 0.0
	if n.Risk != nil {
		risk = *n.Risk
	}
	switch RiskTierOf(risk) {
	case TierObsolete:
		return ColorHighRisk
	case TierWatch:
		return ColorMidRisk
	default:
		return ColorLowRisk
	}
}

// NodeRadius is the circle radius drawn for a node of the given kind.
func NodeRadius(kind NodeKind) float64 {
	switch kind {
	case KindTarget:
		return RadiusTarget
	case KindMicro:
		return RadiusMicro
	default:
		return RadiusCurrent
	}
}

// LegendEntry is one row of the legend drawn under the map.
type LegendEntry struct {
	Color  string `json:"color"`
	Label  string `json:"label"`
	Dashed bool   `json:"dashed,omitempty"`
}

// Legend lists the map legend in display order.
var Legend = []LegendEntry{
	{Color: ColorHighRisk, Label: "Obsolescente (Alto Risco)"},
	{Color: ColorTarget, Label: "Alta Demanda (Alvo)"},
	{Color: ColorLowRisk, Label: "Oportunidade (Baixo Risco)"},
	{Color: ColorHighRisk, Label: "Rota de Upcycling", Dashed: true},
}
