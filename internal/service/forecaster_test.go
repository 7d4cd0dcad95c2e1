package service

import (
	"math"
	"testing"
	"time"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/pkg/logger"

	"github.com/stretchr/testify/suite"
)

// ForecasterTestSuite is the test suite for Forecaster
type ForecasterTestSuite struct {
	suite.Suite
	forecaster *Forecaster
}

func (s *ForecasterTestSuite) SetupTest() {
	s.forecaster = NewForecaster(nil, nil, nil, logger.NewLogger("test"), time.Hour, 14, time.Hour)
}

func TestForecasterTestSuite(t *testing.T) {
	suite.Run(t, new(ForecasterTestSuite))
}

// Test PredictDemand with an empty series
func (s *ForecasterTestSuite) TestPredictDemand_EmptySeries() {
	result, err := s.forecaster.PredictDemand([]float64{})

	s.NoError(err)
	s.Equal(0, result.Prediction)
	s.Equal(0, result.Confidence)
	s.Equal(models.TrendStable, result.Trend)
}

// Test PredictDemand with fewer than three points
func (s *ForecasterTestSuite) TestPredictDemand_ShortSeries() {
	for _, series := range [][]float64{{42}, {42, 43}} {
		result, err := s.forecaster.PredictDemand(series)

		s.NoError(err)
		s.Equal(0, result.Prediction)
		s.Equal(0, result.Confidence)
		s.Equal(models.TrendStable, result.Trend)
	}
}

// Test PredictDemand with a perfectly linear growing series
func (s *ForecasterTestSuite) TestPredictDemand_LinearGrowth() {
	result, err := s.forecaster.PredictDemand([]float64{10, 20, 30, 40, 50})

	s.NoError(err)
	s.Equal(60, result.Prediction)
	s.Equal(models.TrendUp, result.Trend)
	// The series sits exactly on the fitted line
	s.GreaterOrEqual(result.Confidence, 95)
	s.LessOrEqual(result.Confidence, 100)
}

// Test PredictDemand with a constant series
func (s *ForecasterTestSuite) TestPredictDemand_ConstantSeries() {
	result, err := s.forecaster.PredictDemand([]float64{50, 50, 50, 50, 50})

	s.NoError(err)
	s.Equal(50, result.Prediction)
	s.Equal(100, result.Confidence)
	s.Equal(models.TrendStable, result.Trend)
}

// Test PredictDemand with a declining series clamps the prediction at zero
func (s *ForecasterTestSuite) TestPredictDemand_DecliningSeries() {
	result, err := s.forecaster.PredictDemand([]float64{50, 40, 30, 20, 10})

	s.NoError(err)
	s.Equal(0, result.Prediction)
	s.Equal(models.TrendDown, result.Trend)
}

// Test PredictDemand with a flat series with small fluctuations
func (s *ForecasterTestSuite) TestPredictDemand_SmallFluctuationsStable() {
	result, err := s.forecaster.PredictDemand([]float64{30, 30, 31, 29, 30})

	s.NoError(err)
	s.Equal(models.TrendStable, result.Trend)
}

// Test PredictDemand keeps confidence inside [0, 100] for noisy input
func (s *ForecasterTestSuite) TestPredictDemand_ConfidenceRange() {
	noisySeries := [][]float64{
		{10, 50, 12, 48, 11, 49},
		{0, 100, 0, 100, 0, 100},
		{1, 0, 0, 0, 200, 0, 0},
	}

	for _, series := range noisySeries {
		result, err := s.forecaster.PredictDemand(series)

		s.NoError(err)
		s.GreaterOrEqual(result.Confidence, 0)
		s.LessOrEqual(result.Confidence, 100)
	}
}

// Test PredictDemand rejects NaN, infinite and negative values
func (s *ForecasterTestSuite) TestPredictDemand_InvalidValues() {
	invalidSeries := [][]float64{
		{10, math.NaN(), 30},
		{10, math.Inf(1), 30},
		{10, math.Inf(-1), 30},
		{10, -5, 30},
	}

	for _, series := range invalidSeries {
		result, err := s.forecaster.PredictDemand(series)

		s.ErrorIs(err, models.ErrInvalidSeries)
		s.Nil(result)
	}
}

// Test PredictDemand does not modify the input series
func (s *ForecasterTestSuite) TestPredictDemand_InputNotModified() {
	series := []float64{10, 20, 30, 40, 50}

	_, err := s.forecaster.PredictDemand(series)

	s.NoError(err)
	s.Equal([]float64{10, 20, 30, 40, 50}, series)
}
