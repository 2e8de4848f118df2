package theme

// Palette is a named set of colours and fonts for one destination mood.
type Palette struct {
	Name        string `json:"name"`
	Background  string `json:"bg"`
	Pink        string `json:"pink"`
	Blue        string `json:"blue"`
	Yellow      string `json:"yellow"`
	Green       string `json:"green"`
	Purple      string `json:"purple"`
	Orange      string `json:"orange"`
	FontDisplay string `json:"fontDisplay"`
	FontSans    string `json:"fontSans"`
}

const (
	Default  = "DEFAULT"
	Tropical = "TROPICAL"
	Urban    = "URBAN"
	Romantic = "ROMANTIC"
	Desert   = "DESERT"
	Forest   = "FOREST"
)

// order is both the keyword priority and the hash bucket order.
var order = []string{Tropical, Urban, Romantic, Desert, Forest}

var palettes = map[string]Palette{
	Default: {
		Name: Default, Background: "#FFFDF5",
		Pink: "#FF90E8", Blue: "#90F2FF", Yellow: "#FFCE63", Green: "#B0FF90", Purple: "#E0B0FF", Orange: "#FFAB76",
		FontDisplay: "Lexend Mega", FontSans: "Public Sans",
	},
	Tropical: {
		Name: Tropical, Background: "#F0FFF4",
		Pink: "#FF6B6B", Blue: "#4ECDC4", Yellow: "#FFE66D", Green: "#C7F464", Purple: "#FF8C42", Orange: "#FF8C42",
		FontDisplay: "Lexend Mega", FontSans: "Public Sans",
	},
	Urban: {
		Name: Urban, Background: "#F5F5F5",
		Pink: "#FF00FF", Blue: "#00FFFF", Yellow: "#EAFF00", Green: "#00FF99", Purple: "#BC13FE", Orange: "#FF4D00",
		FontDisplay: "Space Mono", FontSans: "Public Sans",
	},
	Romantic: {
		Name: Romantic, Background: "#FFF0F5",
		Pink: "#FFB7B2", Blue: "#AEC6CF", Yellow: "#FDFD96", Green: "#77DD77", Purple: "#C3B1E1", Orange: "#FFDAC1",
		FontDisplay: "Playfair Display", FontSans: "Public Sans",
	},
	Desert: {
		Name: Desert, Background: "#FFF8E7",
		Pink: "#E27D60", Blue: "#85DCB0", Yellow: "#F4A261", Green: "#2A9D8F", Purple: "#E76F51", Orange: "#F4A261",
		FontDisplay: "Lexend Mega", FontSans: "Public Sans",
	},
	Forest: {
		Name: Forest, Background: "#F1F8E9",
		Pink: "#D7CCC8", Blue: "#81D4FA", Yellow: "#FFD54F", Green: "#66BB6A", Purple: "#8D6E63", Orange: "#FFCA28",
		FontDisplay: "Public Sans", FontSans: "Public Sans",
	},
}

var keywords = map[string][]string{
	Tropical: {"hawaii", "bali", "maldives", "fiji", "beach", "island", "caribbean", "cancun", "thailand", "tropical", "ocean", "costa rica"},
	Urban:    {"tokyo", "new york", "nyc", "london", "berlin", "seoul", "shanghai", "hong kong", "city", "singapore", "dubai", "cyberpunk"},
	Romantic: {"paris", "venice", "rome", "florence", "prague", "kyoto", "wedding", "honeymoon", "vienna", "amsterdam", "italy", "france"},
	Desert:   {"egypt", "cairo", "vegas", "nevada", "arizona", "dubai", "morocco", "sahara", "jordan", "petra"},
	Forest:   {"canada", "vancouver", "swiss", "alps", "portland", "seattle", "norway", "sweden", "finland", "hiking", "nature", "park"},
}

// Lookup returns the palette called name.
func Lookup(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// Variables renders the palette as the CSS custom properties the client sets
// on its root element.
func (p Palette) Variables() map[string]string {
	return map[string]string{
		"--neo-bg":           p.Background,
		"--neo-pink":         p.Pink,
		"--neo-blue":         p.Blue,
		"--neo-yellow":       p.Yellow,
		"--neo-green":        p.Green,
		"--neo-purple":       p.Purple,
		"--neo-orange":       p.Orange,
		"--neo-font-display": p.FontDisplay,
		"--neo-font-sans":    p.FontSans,
	}
}
