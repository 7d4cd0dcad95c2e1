package models

import "errors"

var (
	// ErrInvalidSeries série histórica com valores NaN, infinitos ou negativos
	ErrInvalidSeries = errors.New("invalid historical series")

	// ErrNoForecast nenhuma previsão válida disponível
	ErrNoForecast = errors.New("no forecast available")

	// ErrNoInsight nenhum insight válido disponível
	ErrNoInsight = errors.New("no insight available")
)
