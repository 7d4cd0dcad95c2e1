package service

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/pkg/logger"
)

// Alcance estimado por quilômetro de raio. O fator aleatório em [0.8, 1.3)
// marca a estimativa como simulação, não como garantia de entrega.
const (
	reachPerKm      = 1250.0
	reachFactorMin  = 0.8
	reachFactorSpan = 0.5
)

// Custo do impulso no modelo de pacote fixo, em R$
const (
	packageCostSmall  = 9.90  // raio <= 2 km
	packageCostMedium = 29.90 // raio <= 5 km
	packageCostLarge  = 49.90
)

// campaignTemplate modelo de campanha com marcadores {produto} e {categoria}
type campaignTemplate struct {
	title       string
	body        string
	tags        []string
	imagePrompt string
}

// defaultCampaignTemplates tabela padrão, uma entrada por situação de negócio
func defaultCampaignTemplates() map[models.InsightType]campaignTemplate {
	return map[models.InsightType]campaignTemplate{
		models.InsightSlowSales: {
			title:       "Semana especial: {produto} com oferta imperdível",
			body:        "O movimento anda mais calmo? Chame a vizinhança para conhecer {produto} com uma condição especial válida só esta semana.",
			tags:        []string{"oferta", "promoção", "novidade"},
			imagePrompt: "Foto apetitosa de {produto} em destaque, fundo de {categoria}, selo de oferta em vermelho",
		},
		models.InsightPeakDemand: {
			title:       "{produto} no horário que todo mundo quer",
			body:        "Seu horário de pico chegou. Garanta já o seu {produto} antes que a fila cresça!",
			tags:        []string{"pico", "garanta-o-seu", "agilidade"},
			imagePrompt: "Ambiente de {categoria} movimentado, {produto} em primeiro plano, clima de urgência",
		},
		models.InsightWeatherOpportunity: {
			title:       "Tempo perfeito para pedir {produto}",
			body:        "O clima lá fora pede conforto. Receba {produto} em casa sem sair do sofá.",
			tags:        []string{"delivery", "conforto", "clima"},
			imagePrompt: "Janela com chuva ao fundo, {produto} servido em ambiente aconchegante",
		},
		models.InsightHolidayOpportunity: {
			title:       "Feriado combina com {produto}",
			body:        "Aproveite o feriado do jeito certo: {produto} com um toque especial para a data.",
			tags:        []string{"feriado", "celebração", "especial"},
			imagePrompt: "Mesa festiva de {categoria} com {produto} como protagonista, decoração temática",
		},
		models.InsightLowStock: {
			title:       "Últimas unidades de {produto}",
			body:        "Está acabando! Garanta {produto} enquanto ainda dá tempo.",
			tags:        []string{"últimas-unidades", "exclusivo", "corra"},
			imagePrompt: "Poucas unidades de {produto} em exposição, etiqueta de últimas unidades",
		},
	}
}

// fallbackCampaignTemplate usado quando o tipo de insight não é reconhecido;
// tipo desconhecido nunca é erro
var fallbackCampaignTemplate = campaignTemplate{
	title:       "Conheça {produto}",
	body:        "Tem novidade na área: experimente {produto} e descubra por que todo mundo está falando dele.",
	tags:        []string{"novidade", "experimente"},
	imagePrompt: "Foto atraente de {produto} com identidade visual de {categoria}",
}

// CampaignComposer monta rascunhos de campanha de marketing a partir de um
// tipo de insight. A tabela de modelos e a fonte de aleatoriedade são
// injetáveis; nos testes o rng é semeado para fixar as estimativas.
type CampaignComposer struct {
	templates map[models.InsightType]campaignTemplate
	rng       *rand.Rand
	mu        sync.Mutex
	logger    *logger.Logger
}

// NewCampaignComposer cria o compositor; templates nil usa a tabela padrão e
// rng nil usa uma semente baseada no relógio
func NewCampaignComposer(templates map[models.InsightType]campaignTemplate, rng *rand.Rand, logger *logger.Logger) *CampaignComposer {
	if templates == nil {
		templates = defaultCampaignTemplates()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CampaignComposer{
		templates: templates,
		rng:       rng,
		logger:    logger,
	}
}

// GenerateCampaign monta um rascunho interpolando o produto e a categoria no
// modelo do tipo de insight. Tipo desconhecido cai no modelo padrão.
func (c *CampaignComposer) GenerateCampaign(insightType models.InsightType, businessCategory, productName string) *models.CampaignDraft {
	tpl, ok := c.templates[insightType]
	if !ok {
		c.logger.WithField("insight_type", insightType).Debug("Unknown insight type, using fallback template")
		tpl = fallbackCampaignTemplate
	}

	replacer := strings.NewReplacer(
		"{produto}", productName,
		"{categoria}", businessCategory,
	)

	draft := &models.CampaignDraft{
		ID:          uuid.NewString(),
		InsightType: insightType,
		Title:       replacer.Replace(tpl.title),
		Copy:        replacer.Replace(tpl.body),
		Tags:        append([]string(nil), tpl.tags...),
		ImagePrompt: replacer.Replace(tpl.imagePrompt),
		CreatedAt:   time.Now(),
	}

	campaignsComposed.WithLabelValues(string(insightType)).Inc()

	return draft
}

// EstimateReach estima quantas pessoas um impulso com o raio dado alcança.
// O chamador garante raio em [1,10] km. O resultado varia a cada chamada
// dentro de [raio*1250*0.8, raio*1250*1.3).
func (c *CampaignComposer) EstimateReach(radiusKm float64) int {
	c.mu.Lock()
	factor := reachFactorMin + c.rng.Float64()*reachFactorSpan
	c.mu.Unlock()

	return int(radiusKm * reachPerKm * factor)
}

// CampaignCost calcula o custo do impulso. No pacote fixo o custo é uma
// função degrau do raio; no pay-per-view o custo é o orçamento do chamador.
func (c *CampaignComposer) CampaignCost(pricingModel string, radiusKm, budget float64) float64 {
	if pricingModel == models.PricingPerView {
		return budget
	}

	switch {
	case radiusKm <= 2:
		return packageCostSmall
	case radiusKm <= 5:
		return packageCostMedium
	default:
		return packageCostLarge
	}
}

// Estimate combina alcance e custo em uma única estimativa para o painel
func (c *CampaignComposer) Estimate(pricingModel string, radiusKm, budget float64) models.CampaignEstimate {
	return models.CampaignEstimate{
		RadiusKm:       radiusKm,
		PotentialReach: c.EstimateReach(radiusKm),
		PricingModel:   pricingModel,
		Cost:           c.CampaignCost(pricingModel, radiusKm, budget),
	}
}
