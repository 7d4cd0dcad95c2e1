package service

import (
	"math/rand"
	"testing"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/pkg/logger"

	"github.com/stretchr/testify/suite"
)

// CampaignComposerTestSuite is the test suite for CampaignComposer
type CampaignComposerTestSuite struct {
	suite.Suite
	composer *CampaignComposer
}

func (s *CampaignComposerTestSuite) SetupTest() {
	s.composer = NewCampaignComposer(nil, rand.New(rand.NewSource(42)), logger.NewLogger("test"))
}

func TestCampaignComposerTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignComposerTestSuite))
}

// Test GenerateCampaign interpolates the product into a known template
func (s *CampaignComposerTestSuite) TestGenerateCampaign_KnownType() {
	draft := s.composer.GenerateCampaign(models.InsightSlowSales, "pizzaria", "Pizza Margherita")

	s.NotEmpty(draft.ID)
	s.Equal(models.InsightSlowSales, draft.InsightType)
	s.Contains(draft.Title, "Pizza Margherita")
	s.Contains(draft.Copy, "Pizza Margherita")
	s.Contains(draft.ImagePrompt, "pizzaria")
	s.NotEmpty(draft.Tags)
	s.False(draft.CreatedAt.IsZero())
}

// Test GenerateCampaign falls back to the default template for unknown types
func (s *CampaignComposerTestSuite) TestGenerateCampaign_UnknownTypeFallback() {
	draft := s.composer.GenerateCampaign(models.InsightType("competitor_opening"), "bar", "Chopp Artesanal")

	s.NotEmpty(draft.Title)
	s.NotEmpty(draft.Copy)
	s.Contains(draft.Copy, "Chopp Artesanal")
	s.Equal(models.InsightType("competitor_opening"), draft.InsightType)
}

// Test GenerateCampaign covers every built-in template
func (s *CampaignComposerTestSuite) TestGenerateCampaign_AllBuiltInTypes() {
	types := []models.InsightType{
		models.InsightSlowSales,
		models.InsightPeakDemand,
		models.InsightWeatherOpportunity,
		models.InsightHolidayOpportunity,
		models.InsightLowStock,
	}

	for _, insightType := range types {
		draft := s.composer.GenerateCampaign(insightType, "restaurante", "Feijoada")

		s.NotEmpty(draft.Title, "type %s", insightType)
		s.NotEmpty(draft.Copy, "type %s", insightType)
		s.NotEmpty(draft.ImagePrompt, "type %s", insightType)
		s.NotContains(draft.Title, "{produto}", "type %s", insightType)
		s.NotContains(draft.Copy, "{produto}", "type %s", insightType)
	}
}

// Test GenerateCampaign gives each draft a unique ID
func (s *CampaignComposerTestSuite) TestGenerateCampaign_UniqueIDs() {
	first := s.composer.GenerateCampaign(models.InsightSlowSales, "lanchonete", "X-Burger")
	second := s.composer.GenerateCampaign(models.InsightSlowSales, "lanchonete", "X-Burger")

	s.NotEqual(first.ID, second.ID)
}

// Test EstimateReach stays within the simulated bounds for the radius
func (s *CampaignComposerTestSuite) TestEstimateReach_WithinBounds() {
	for i := 0; i < 100; i++ {
		reach := s.composer.EstimateReach(2.0)

		s.GreaterOrEqual(reach, 2000)
		s.Less(reach, 3250)
	}
}

// Test EstimateReach is reproducible with the same seed
func (s *CampaignComposerTestSuite) TestEstimateReach_SeededReproducible() {
	first := NewCampaignComposer(nil, rand.New(rand.NewSource(7)), logger.NewLogger("test"))
	second := NewCampaignComposer(nil, rand.New(rand.NewSource(7)), logger.NewLogger("test"))

	s.Equal(first.EstimateReach(5.0), second.EstimateReach(5.0))
}

// Test CampaignCost fixed package price steps by radius
func (s *CampaignComposerTestSuite) TestCampaignCost_FixedPackageSteps() {
	tests := []struct {
		radius   float64
		expected float64
	}{
		{1.0, 9.90},
		{2.0, 9.90},
		{3.0, 29.90},
		{5.0, 29.90},
		{6.0, 49.90},
		{10.0, 49.90},
	}

	for _, tt := range tests {
		cost := s.composer.CampaignCost(models.PricingFixedPackage, tt.radius, 0)
		s.InDelta(tt.expected, cost, 0.001, "radius %.1f", tt.radius)
	}
}

// Test CampaignCost pay-per-view returns the caller's budget
func (s *CampaignComposerTestSuite) TestCampaignCost_PerView() {
	cost := s.composer.CampaignCost(models.PricingPerView, 3.0, 120.50)

	s.InDelta(120.50, cost, 0.001)
}

// Test Estimate combines reach and cost for the dashboard
func (s *CampaignComposerTestSuite) TestEstimate_CombinesReachAndCost() {
	estimate := s.composer.Estimate(models.PricingFixedPackage, 4.0, 0)

	s.InDelta(4.0, estimate.RadiusKm, 0.001)
	s.Equal(models.PricingFixedPackage, estimate.PricingModel)
	s.InDelta(29.90, estimate.Cost, 0.001)
	s.GreaterOrEqual(estimate.PotentialReach, 4000)
	s.Less(estimate.PotentialReach, 6500)
}
