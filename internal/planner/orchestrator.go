// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/trip-engine/internal/genai"
	"github.com/pdiddy/trip-engine/internal/providers"
	"github.com/pdiddy/trip-engine/pkg/types"
)

// Orchestrator drives the full planning sequence: analyze, prompt, generate,
// parse, aggregate travel data, enhance, adjust, assemble. Every stage
// degrades rather than fails; Plan always returns a usable plan.
type Orchestrator struct {
	backend genai.Backend
	cfg     types.PlannerConfig
	flights *providers.Cascade[providers.FlightQuery, types.Flight]
	hotels  *providers.Cascade[providers.HotelQuery, types.Hotel]
	weather *providers.Cascade[providers.WeatherQuery, types.WeatherDay]
	log     *logrus.Logger
}

// NewOrchestrator builds an orchestrator. Any cascade may be nil, in which
// case that data kind is simply absent from the plan.
func NewOrchestrator(
	backend genai.Backend,
	cfg types.PlannerConfig,
	flights *providers.Cascade[providers.FlightQuery, types.Flight],
	hotels *providers.Cascade[providers.HotelQuery, types.Hotel],
	weather *providers.Cascade[providers.WeatherQuery, types.WeatherDay],
	log *logrus.Logger,
) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		backend: backend,
		cfg:     cfg,
		flights: flights,
		hotels:  hotels,
		weather: weather,
		log:     log,
	}
}

// Plan synthesizes a complete travel plan for the request. There is no fatal
// path: generation failures produce a templated plan, cascade failures
// produce synthetic travel data, and enhancement failures are swallowed.
func (o *Orchestrator) Plan(ctx context.Context, req types.TravelRequest) types.TravelPlan {
	report := Analyze(req)
	parsed := o.generate(ctx, req, report)

	plan := types.TravelPlan{
		ID:              uuid.NewString(),
		Destination:     req.Destination,
		Days:            parsed.Days,
		Recommendations: parsed.Recommendations,
		Warnings:        parsed.Warnings,
		Confidence:      parsed.tier.confidence(),
		Provenance:      parsed.tier.provenance(),
		GeneratedAt:     time.Now().UTC(),
	}

	o.attachTravelData(ctx, req, &plan)
	o.enhance(ctx, &plan)

	return Adjust(plan, report)
}

// generate renders the prompt, calls the backend with bounded retry, and
// parses whatever came back. No text at all yields the templated tier.
func (o *Orchestrator) generate(ctx context.Context, req types.TravelRequest, report types.EdgeCaseReport) ParsedItinerary {
	prompt, err := SynthesizePrompt(req, report)
	if err != nil {
		o.log.WithError(err).Warn("prompt synthesis failed, using templated plan")
		return TemplatedPlan(req)
	}

	text, err := genai.CompleteWithRetry(ctx, o.backend, genai.CompletionRequest{
		Model:       o.cfg.Model,
		Messages:    []genai.Message{{Role: "user", Content: prompt}},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}, o.cfg.MaxRetries)
	if err != nil {
		o.log.WithError(err).Warn("generation failed, using templated plan")
		return TemplatedPlan(req)
	}

	return ParseResponse(text, req)
}

// attachTravelData overlays cascade results onto the plan: the cheapest
// flight and hotel, and per-day forecasts matched by date.
func (o *Orchestrator) attachTravelData(ctx context.Context, req types.TravelRequest, plan *types.TravelPlan) {
	if o.flights != nil {
		res, _ := o.flights.Aggregate(ctx, providers.FlightQuery{
			Origin:    req.Origin,
			Dest:      req.Destination.Name,
			Departure: req.StartDate,
			Travelers: req.Travelers,
		})
		if len(res.Items) > 0 {
			plan.Flights = []types.Flight{res.Items[0]}
		}
	}

	if o.hotels != nil {
		res, _ := o.hotels.Aggregate(ctx, providers.HotelQuery{
			City:    req.Destination.Name,
			CheckIn: req.StartDate,
			Nights:  req.Nights(),
			Guests:  req.Travelers,
		})
		if len(res.Items) > 0 {
			hotel := res.Items[0]
			plan.Hotel = &hotel
		}
	}

	if o.weather != nil {
		res, _ := o.weather.Aggregate(ctx, providers.WeatherQuery{
			City:    req.Destination.Name,
			Lat:     req.Destination.Latitude,
			Lon:     req.Destination.Longitude,
			Start:   req.StartDate,
			Days:    req.DurationDays,
			Climate: req.Destination.Climate,
		})
		byDate := make(map[string]types.WeatherDay, len(res.Items))
		for _, d := range res.Items {
			byDate[d.Date.Format("2006-01-02")] = d
		}
		for i := range plan.Days {
			if d, ok := byDate[plan.Days[i].Date.Format("2006-01-02")]; ok {
				plan.Days[i].Weather = d
			}
		}
	}
}

// enhance runs the optional second generation pass for extra recommendations.
// Any failure leaves the plan unchanged.
func (o *Orchestrator) enhance(ctx context.Context, plan *types.TravelPlan) {
	if !o.cfg.EnhancementEnabled || o.backend == nil {
		return
	}

	prompt, err := SynthesizeEnhancementPrompt(*plan)
	if err != nil {
		o.log.WithError(err).Debug("enhancement prompt failed")
		return
	}

	text, err := o.backend.Complete(ctx, genai.CompletionRequest{
		Model:       o.cfg.Model,
		Messages:    []genai.Message{{Role: "user", Content: prompt}},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		o.log.WithError(err).Debug("enhancement pass failed")
		return
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		plan.Recommendations = append(plan.Recommendations, line)
	}
}
