// Package vision extracts reservation data from booking screenshots
// using the Gemini API.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"limpiabnb-backend/config"
)

// Candidate is one reservation extracted from a screenshot, before
// property matching. Field names follow the JSON the model is asked to
// produce.
type Candidate struct {
	GuestName       string `json:"guestName"`
	PropertyName    string `json:"propertyName"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
	ReservationCode string `json:"reservationCode"`
	PhoneSuffix     string `json:"phoneSuffix"`
}

const extractPrompt = `Analiza esta captura de pantalla de una reserva de alojamiento turístico.
Extrae todas las reservas visibles y responde ÚNICAMENTE con un array JSON, sin texto adicional.
Cada elemento debe tener esta forma:
{"guestName": "...", "propertyName": "...", "checkIn": "YYYY-MM-DD", "checkOut": "YYYY-MM-DD", "guests": 2, "reservationCode": "...", "phoneSuffix": "..."}
Usa "" para los campos de texto que no aparezcan y 0 para los numéricos.`

// Service wraps a Gemini client configured for screenshot extraction.
type Service struct {
	client *genai.Client
	model  string
}

// NewService creates the screenshot import service. It fails when no API
// key is configured.
func NewService(ctx context.Context, cfg *config.GeminiConfig) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api_key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &Service{client: client, model: cfg.Model}, nil
}

// ParseReservationsFromImage sends the screenshot to the model and
// decodes the JSON array it returns.
func (s *Service) ParseReservationsFromImage(ctx context.Context, imageData []byte, mimeType string) ([]Candidate, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(extractPrompt),
			genai.NewPartFromBytes(imageData, mimeType),
		}, genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from model %s", s.model)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	raw := ExtractJSONArray(text.String())
	if raw == "" {
		return nil, fmt.Errorf("model response contains no JSON array")
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	return candidates, nil
}

// ExtractJSONArray cuts the first '[' through the last ']' out of a
// model response, tolerating markdown fences and prose around the JSON.
func ExtractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
