package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/utils"
)

var (
	flightDestinationRe = regexp.MustCompile(`(?i)flight to ([a-zA-Z\s]+)`)
	hotelLocationRe     = regexp.MustCompile(`(?i)hotel in ([a-zA-Z\s]+)`)
)

const (
	defaultItineraryTitle = "Itinerary Request"
	maxTitleLength        = 30
)

// ItineraryParser turns a free-text trip request into a workflow outline
type ItineraryParser struct {
	gateway repository.LLMGateway
	logger  logger.Logger
}

// NewItineraryParser creates a new itinerary parser
func NewItineraryParser(gateway repository.LLMGateway, logger logger.Logger) *ItineraryParser {
	return &ItineraryParser{
		gateway: gateway,
		logger:  logger,
	}
}

// Parse asks the gateway for a structured itinerary and falls back to keyword
// matching when the model gives nothing usable.
func (p *ItineraryParser) Parse(ctx context.Context, text string) entity.ParsedItinerary {
	if reply, ok := p.gateway.Reason(ctx, buildItineraryPrompt(text)); ok {
		if itinerary, ok := p.fromReply(reply); ok {
			return itinerary
		}
		p.logger.Warn("Itinerary reply unusable, using keyword heuristics")
	}
	return heuristicItinerary(text)
}

func (p *ItineraryParser) fromReply(reply string) (entity.ParsedItinerary, bool) {
	parsed := utils.ParseStructuredReply(reply)
	if !parsed.Parsed {
		return entity.ParsedItinerary{}, false
	}

	items, _ := parsed.Array("steps")
	steps := make([]entity.Step, 0, len(items))
	for _, item := range items {
		if !item.Parsed {
			continue
		}
		name, ok := item.Text("name")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		steps = append(steps, entity.NewStep(newStepID(), name, item.TextOr("description", "")))
	}
	if len(steps) == 0 {
		return entity.ParsedItinerary{}, false
	}

	itinerary := entity.ParsedItinerary{
		Title:         parsed.TextOr("title", defaultItineraryTitle),
		CustomerEmail: parsed.TextOr("customerEmail", ""),
		Origin:        parsed.TextOr("source", ""),
		Destination:   parsed.TextOr("destination", ""),
		Steps:         steps,
	}
	if raw, ok := parsed.Text("travelDate"); ok {
		if date, err := entity.ParseTravelDate(strings.TrimSpace(raw)); err == nil {
			itinerary.TravelDate = &date
		} else {
			p.logger.Warn("Ignoring unreadable travel date", "travelDate", raw)
		}
	}
	return itinerary, true
}

func heuristicItinerary(text string) entity.ParsedItinerary {
	lower := strings.ToLower(text)
	var steps []entity.Step

	if strings.Contains(lower, "flight") || strings.Contains(lower, "fly") {
		steps = append(steps, entity.NewStep(newStepID(), "Flight Booking",
			withDetail(text, flightDestinationRe, "Book flight")))
	}
	if strings.Contains(lower, "hotel") || strings.Contains(lower, "stay") {
		steps = append(steps, entity.NewStep(newStepID(), "Hotel Booking",
			withDetail(text, hotelLocationRe, "Book hotel accommodation")))
	}
	if strings.Contains(lower, "cab") || strings.Contains(lower, "taxi") || strings.Contains(lower, "transfer") {
		steps = append(steps, entity.NewStep(newStepID(), "Transfer Arrangement", "Arrange local transportation"))
	}
	steps = append(steps, entity.NewStep(newStepID(), "Payment & Finalize", "Complete payment and send itinerary"))

	return entity.ParsedItinerary{
		Title: heuristicTitle(text),
		Steps: steps,
	}
}

func heuristicTitle(text string) string {
	runes := []rune(text)
	switch {
	case len(runes) > maxTitleLength:
		return string(runes[:maxTitleLength-3]) + "..."
	case len(runes) > 0:
		return text
	}
	return defaultItineraryTitle
}

func withDetail(text string, re *regexp.Regexp, base string) string {
	if match := re.FindString(text); match != "" {
		return base + " " + strings.TrimSpace(match)
	}
	return base
}

func newStepID() string {
	return "step-" + uuid.New().String()
}
