package souvenirs

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

const (
	defaultBudget   = "Moderate ($$)"
	defaultDuration = "Week"
)

func getSouvenirPrompt(destination, budget, duration string) string {
	return fmt.Sprintf(`Create a complete souvenir guide for %s (Budget: %s, Duration: %s).
Consider the trip duration: if short, suggest accessible items; if long, suggest custom or hard-to-find items.
1. List 8 unique souvenirs (mix of traditional, food, art, modern).
2. Determine the negotiation style (Fixed Price, Casual Bargaining, or Aggressive Bargaining).
3. Provide 3 specific negotiation tips for this culture.
4. List 3-5 restricted items or scams to avoid (e.g. "Ivory", "Fake Antiques").
5. List 4 unique "collectible stamps" or "postmarks" people can get here (e.g. Eki stamps in Japan, National Park passport stamps, museum ink stamps, or iconic post office cancellations).
6. Estimate the GPS coordinates (lat/lng) of the destination's main market district.
Return strictly JSON.`, destination, budget, duration)
}

func souvenirSchema() *genai.Schema {
	obj := func(props map[string]*genai.Schema, required ...string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
	}
	str := &genai.Schema{Type: genai.TypeString}
	strs := &genai.Schema{Type: genai.TypeArray, Items: str}

	return obj(map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: obj(map[string]*genai.Schema{
				"name":            str,
				"description":     str,
				"category":        {Type: genai.TypeString, Enum: []string{"Traditional", "Food", "Art", "Modern", "Kitsch"}},
				"priceRange":      str,
				"authenticityTip": str,
			}, "name", "description", "category", "priceRange", "authenticityTip"),
		},
		"negotiationStyle": {
			Type: genai.TypeString,
			Enum: []string{models.NegotiationFixed, models.NegotiationCasual, models.NegotiationAggressive},
		},
		"negotiationTips": strs,
		"restrictedItems": strs,
		"collectibleStamps": {
			Type: genai.TypeArray,
			Items: obj(map[string]*genai.Schema{
				"name":        str,
				"location":    str,
				"description": str,
			}, "name", "location", "description"),
		},
		"coordinates": obj(map[string]*genai.Schema{
			"lat": {Type: genai.TypeNumber},
			"lng": {Type: genai.TypeNumber},
		}, "lat", "lng"),
	}, "items", "negotiationStyle", "negotiationTips", "restrictedItems", "collectibleStamps")
}
