// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// itineraryPromptTmpl is the prompt sent to the generation backend for a plan.
// It pins the exact JSON schema the parser expects; remediation instructions
// are appended only for detected conflicts.
var itineraryPromptTmpl = template.Must(template.New("itinerary").Parse(`You are a travel planning system. Create a {{.DurationDays}}-day itinerary for {{.Travelers}} traveler(s) visiting {{.Destination}}, {{.Country}}.

Trip facts:
- Start date: {{.StartDate}}
- Total budget: {{.Budget}} USD for the whole group
- Destination climate: {{.Climate}}{{if .Interests}}
- Interests: {{.Interests}}{{end}}{{if .Style}}
- Travel style: {{.Style}}{{end}}{{if .Pace}}
- Pace: {{.Pace}}{{end}}{{if .GroupType}}
- Group: {{.GroupType}}{{end}}{{if .Dietary}}
- Dietary constraints: {{.Dietary}}{{end}}{{if .Accessibility}}
- Accessibility constraints: {{.Accessibility}}{{end}}
{{range .RemediationLines}}
IMPORTANT: {{.}}{{end}}

Respond with a single JSON object and no text outside it, using exactly this shape:
{"itinerary": [{"day": 1, "morning": {"activity": "...", "location": "...", "duration_hours": 2, "cost": 0, "notes": "..."}, "afternoon": {...}, "evening": {...}, "meals": [{"type": "breakfast", "venue": "...", "cost": 0}], "transportation": "metro", "day_total": 0}], "total_cost": 0, "budget_breakdown": {"activities": 0, "food": 0, "transport": 0}, "recommendations": ["..."], "warnings": ["..."], "alternatives": ["..."]}

Every day must include morning, afternoon, and evening entries, a meal list, transportation, and a day total. Costs are per group in USD.
`))

// SynthesizePrompt deterministically renders the itinerary prompt for one
// request. Remediation lines appear only for flags the analyzer detected.
func SynthesizePrompt(req types.TravelRequest, report types.EdgeCaseReport) (string, error) {
	var remediation []string
	if report.BudgetConflict.Detected {
		remediation = append(remediation,
			"budget constraint: prefer free or low-cost options throughout")
	}
	if report.DurationConflict.Detected {
		remediation = append(remediation,
			"duration constraint: "+report.DurationConflict.Detail+"; "+
				strings.Join(report.DurationConflict.RemediationHints, "; "))
	}
	if report.ClimateConflict.Detected {
		remediation = append(remediation,
			"climate mismatch: "+report.ClimateConflict.Detail+"; prefer indoor-friendly options")
	}

	data := struct {
		DurationDays     int
		Travelers        int
		Destination      string
		Country          string
		StartDate        string
		Budget           float64
		Climate          types.Climate
		Interests        string
		Style            string
		Pace             string
		GroupType        string
		Dietary          string
		Accessibility    string
		RemediationLines []string
	}{
		DurationDays:     req.DurationDays,
		Travelers:        req.Travelers,
		Destination:      req.Destination.Name,
		Country:          req.Destination.Country,
		StartDate:        req.StartDate.Format("2006-01-02"),
		Budget:           req.Budget,
		Climate:          req.Destination.Climate,
		Interests:        strings.Join(req.Interests, ", "),
		Style:            req.Style,
		Pace:             req.Pace,
		GroupType:        req.GroupType,
		Dietary:          strings.Join(req.Dietary, ", "),
		Accessibility:    strings.Join(req.Accessibility, ", "),
		RemediationLines: remediation,
	}

	var buf bytes.Buffer
	if err := itineraryPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering itinerary prompt: %w", err)
	}
	return buf.String(), nil
}

// enhancementPromptTmpl asks for extra recommendations given a plan summary.
var enhancementPromptTmpl = template.Must(template.New("enhancement").Parse(`You are a travel planning system. Given the itinerary summary below, suggest 3-5 additional recommendations covering activities, dining, cultural notes, or practical tips for {{.Destination}}.

Respond with one recommendation per line and no other text.

Itinerary summary:
{{.Summary}}
`))

// SynthesizeEnhancementPrompt renders the secondary-pass prompt from a plan.
func SynthesizeEnhancementPrompt(plan types.TravelPlan) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%d days in %s, total cost %.0f USD\n",
		len(plan.Days), plan.Destination.Name, plan.TotalCost)
	for _, day := range plan.Days {
		names := make([]string, 0, len(day.Activities))
		for _, a := range day.Activities {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, "day %d: %s\n", day.Index, strings.Join(names, "; "))
	}

	data := struct {
		Destination string
		Summary     string
	}{
		Destination: plan.Destination.Name,
		Summary:     b.String(),
	}

	var buf bytes.Buffer
	if err := enhancementPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering enhancement prompt: %w", err)
	}
	return buf.String(), nil
}
