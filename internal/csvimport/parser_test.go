package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limpiabnb-backend/internal/model"
)

var knownProperties = []model.Property{
	{ID: "p-1", Name: "Casa Centro"},
	{ID: "p-2", Name: "Habitación Azul"},
}

func TestParse_BasicCommaSeparated(t *testing.T) {
	content := "Codigo,Anuncio,Llegada,Salida\nABC123,Casa Centro,2024-05-01,2024-05-03"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Reservas CSV", result.Type)

	r := result.Reservations[0]
	assert.Equal(t, "ABC123", r.ReservationCode)
	assert.Equal(t, "p-1", r.PropertyID)
	assert.Equal(t, "2024-05-01", r.CheckIn)
	assert.Equal(t, "2024-05-03", r.CheckOut)
	assert.Equal(t, model.SourceManual, r.SourceID)
	assert.Equal(t, model.StatusUpcoming, r.Status)
	assert.Equal(t, 1, r.GuestCount)
}

func TestParse_HeaderOnlyFails(t *testing.T) {
	_, err := Parse("Codigo,Anuncio,Llegada,Salida", knownProperties)
	assert.True(t, errors.Is(err, ErrInvalidImport))
}

func TestParse_MissingRequiredColumnsFails(t *testing.T) {
	// No property column.
	_, err := Parse("Codigo,Llegada,Salida\nABC,2024-05-01,2024-05-03", knownProperties)
	assert.True(t, errors.Is(err, ErrInvalidImport))

	// No check-in column.
	_, err = Parse("Codigo,Anuncio,Salida\nABC,Casa Centro,2024-05-03", knownProperties)
	assert.True(t, errors.Is(err, ErrInvalidImport))
}

func TestParse_SemicolonDelimiterDetected(t *testing.T) {
	content := "Código de confirmación;Anuncio;Huésped;Llegada;Salida\nHM9XY;casa centro;Ana López;2024-06-10;2024-06-12"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "HM9XY", result.Reservations[0].ReservationCode)
	assert.Equal(t, "ANA LÓPEZ", result.Reservations[0].GuestName)
	assert.Equal(t, "p-1", result.Reservations[0].PropertyID)
}

func TestParse_QuotedFieldWithDelimiter(t *testing.T) {
	content := "Codigo,Anuncio,Huesped,Llegada\nABC,\"Casa Centro\",\"Doe, Jane\",2024-07-01"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "DOE, JANE", result.Reservations[0].GuestName)
}

func TestParse_DayFirstDatesNormalized(t *testing.T) {
	content := "Codigo,Anuncio,Llegada,Salida\nABC,Casa Centro,01/05/2024,3-5-2024"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", result.Reservations[0].CheckIn)
	assert.Equal(t, "2024-05-03", result.Reservations[0].CheckOut)
}

func TestParse_GuestCountSumWithFloor(t *testing.T) {
	content := "Codigo,Anuncio,Llegada,Adultos,Niños\nA,Casa Centro,2024-05-01,2,1\nB,Casa Centro,2024-05-04,x,y"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, 3, result.Reservations[0].GuestCount)
	assert.Equal(t, 1, result.Reservations[1].GuestCount)
}

func TestParse_ShortRowsSkipped(t *testing.T) {
	content := "Codigo,Anuncio,Llegada,Salida\nABC,Casa Centro\nDEF,Casa Centro,2024-05-01,2024-05-03"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "DEF", result.Reservations[0].ReservationCode)
}

func TestParse_UnmatchedPropertyFallsBackToFirst(t *testing.T) {
	content := "Codigo,Anuncio,Llegada\nABC,Chalet Desconocido,2024-05-01"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	assert.Equal(t, "p-1", result.Reservations[0].PropertyID)
}

func TestParse_NoPropertiesUsesManualSentinel(t *testing.T) {
	content := "Codigo,Anuncio,Llegada\nABC,Cualquier Casa,2024-05-01"

	result, err := Parse(content, nil)
	require.NoError(t, err)
	assert.Equal(t, model.SourceManual, result.Reservations[0].PropertyID)
}

func TestParse_SynthesizesCodeWhenMissing(t *testing.T) {
	content := "Anuncio,Llegada,Codigo\nCasa Centro,2024-05-01,"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	assert.Contains(t, result.Reservations[0].ReservationCode, "CSV-0-")
}

func TestParse_BOMStripped(t *testing.T) {
	content := "\uFEFFCodigo,Anuncio,Llegada\nABC,Casa Centro,2024-05-01"

	result, err := Parse(content, knownProperties)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "codigo de confirmacion", Normalize("Código de Confirmación"))
	assert.Equal(t, "habitacion azul", Normalize("  Habitación-Azul!! "))
	assert.Equal(t, "casa centro", Normalize("CASA   CENTRO"))
}

func TestMatchProperty_SubstringBothWays(t *testing.T) {
	assert.Equal(t, "p-1", MatchProperty("Casa Centro (2 camas)", knownProperties))
	assert.Equal(t, "p-2", MatchProperty("azul", []model.Property{knownProperties[1]}))
}
