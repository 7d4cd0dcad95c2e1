package models

import "time"

// Modelo de cobrança do impulso de campanha
const (
	PricingFixedPackage = "fixed_package"
	PricingPerView      = "per_view"
)

// CampaignDraft rascunho de campanha gerado pelo compositor. Objeto de
// trabalho do chamador: vive enquanto o modal de campanha está aberto e é
// descartado no cancelamento; o lançamento é responsabilidade do fluxo de
// pagamento, fora deste serviço.
type CampaignDraft struct {
	ID          string      `json:"id"`
	InsightType InsightType `json:"insight_type"`
	Title       string      `json:"title"`
	Copy        string      `json:"copy"`
	Tags        []string    `json:"tags"`
	ImagePrompt string      `json:"image_prompt"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CampaignEstimate estimativa de alcance e custo de um impulso
type CampaignEstimate struct {
	RadiusKm       float64 `json:"radius_km"`
	PotentialReach int     `json:"potential_reach"` // simulado, não garantido
	PricingModel   string  `json:"pricing_model"`
	Cost           float64 `json:"cost"` // R$
}
