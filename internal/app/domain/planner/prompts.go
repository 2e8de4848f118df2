package planner

import (
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

const offbeatClause = `
IMPORTANT: The user has selected "Offbeat" travel.
- You MUST prioritize hidden gems, secret spots, and non-touristy locations.
- Avoid the most common tourist traps unless absolutely essential (and even then, suggest a unique angle).
- Focus on unique, local experiences and less crowded areas.
- Use the category 'Offbeat' for these unique locations.
`

var activityCategories = []string{"Food", "Sightseeing", "Adventure", "Relaxation", "Culture", "Shopping", "Offbeat"}

func getItineraryPrompt(prefs models.TripPreferences, destination string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "System: You are a world-class travel agent.\n")
	fmt.Fprintf(&b, "Task: Plan a detailed %d-day trip to %s for a %s group in %s.\n",
		prefs.Duration, destination, prefs.Travelers, prefs.TravelMonth)
	fmt.Fprintf(&b, "Budget Level: %s. Interests: %s.\n\n", prefs.Budget, strings.Join(prefs.Interests, ", "))
	fmt.Fprintf(&b, `Requirements:
1. Realistic daily schedule considering the season (%s).
2. Logical flow by location.
3. Specific details (opening hours, price, duration).
4. Realistic budget breakdown in local currency.
5. Provide ESTIMATED GPS coordinates (lat/lng) for each activity.
6. JSON output only.
`, prefs.TravelMonth)
	if slices.Contains(prefs.Interests, models.InterestOffbeat) {
		b.WriteString(offbeatClause)
	}
	return b.String()
}

func getLanguageTipsPrompt(destination string) string {
	return fmt.Sprintf("Provide 10 essential travel phrases for a tourist visiting %s.\nReturn strictly JSON array.", destination)
}

func getConciergePrompt(req models.ChatRequest) string {
	var b strings.Builder
	b.WriteString(`You are the "Pocket Concierge" for a traveler currently on this trip:` + "\n")
	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "Trip Summary: %s\n\n", req.Summary)
	if len(req.History) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range req.History {
			speaker := "Traveler"
			if m.Role == models.RoleModel {
				speaker = "Concierge"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User Question: %s\n\n", req.Message)
	b.WriteString("Answer briefly, helpfully, and with a friendly travel guide personality.\n")
	b.WriteString("If asked about specific days, refer to the context implicitly.\n")
	return b.String()
}

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

func itinerarySchema() *genai.Schema {
	activity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":               {Type: genai.TypeString},
			"description":        {Type: genai.TypeString},
			"time":               {Type: genai.TypeString},
			"category":           {Type: genai.TypeString, Enum: activityCategories},
			"locationHint":       {Type: genai.TypeString},
			"openingHours":       {Type: genai.TypeString},
			"duration":           {Type: genai.TypeString},
			"price":              {Type: genai.TypeString},
			"packingSuggestions": stringArray(),
			"coordinates": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"lat": {Type: genai.TypeNumber},
					"lng": {Type: genai.TypeNumber},
				},
				Required: []string{"lat", "lng"},
			},
		},
		Required: []string{"name", "description", "time", "category", "duration", "packingSuggestions"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tripName":    {Type: genai.TypeString, Description: "Trip Name"},
			"destination": {Type: genai.TypeString, Description: "Destination"},
			"summary":     {Type: genai.TypeString, Description: "Brief summary"},
			"budgetBreakdown": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"accommodation":  {Type: genai.TypeNumber},
					"food":           {Type: genai.TypeNumber},
					"activities":     {Type: genai.TypeNumber},
					"transport":      {Type: genai.TypeNumber},
					"misc":           {Type: genai.TypeNumber},
					"currency":       {Type: genai.TypeString},
					"totalEstimated": {Type: genai.TypeNumber},
				},
				Required: []string{"accommodation", "food", "activities", "transport", "misc", "currency", "totalEstimated"},
			},
			"days": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":        {Type: genai.TypeInteger},
						"theme":      {Type: genai.TypeString},
						"activities": {Type: genai.TypeArray, Items: activity},
					},
					Required: []string{"day", "theme", "activities"},
				},
			},
		},
		Required: []string{"tripName", "destination", "summary", "budgetBreakdown", "days"},
	}
}

func languageTipsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"phrase":        {Type: genai.TypeString},
				"pronunciation": {Type: genai.TypeString},
				"meaning":       {Type: genai.TypeString},
			},
			Required: []string{"phrase", "pronunciation", "meaning"},
		},
	}
}
