package render

import "github.com/mhuisman/etymon/pkg/lineage"

// Theme holds the chrome colors for one display mode. Node fills come
// from [FamilyColor]; the theme covers everything around them.
type Theme struct {
	Dark       bool   `json:"dark"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Edge       string `json:"edge"`
	Outline    string `json:"outline"`
	Accent     string `json:"accent"`
}

// Light is the default paper theme.
var Light = Theme{
	Background: "#fbfaf7",
	Surface:    "#ffffff",
	Text:       "#1f2430",
	Muted:      "#6b7280",
	Edge:       "#9aa3b2",
	Outline:    "#394150",
	Accent:     "#d97706",
}

// Dark is the night theme.
var Dark = Theme{
	Dark:       true,
	Background: "#14161c",
	Surface:    "#1e222b",
	Text:       "#e8e6e3",
	Muted:      "#9aa0ab",
	Edge:       "#566070",
	Outline:    "#aab3c0",
	Accent:     "#fbbf24",
}

// familyColors maps each bucket to a [light, dark] fill pair. Pastels on
// paper, deeper tones at night, same hue both ways so a tree keeps its
// shape when the theme flips. Buckets missing here fall back to Other.
var familyColors = map[lineage.Family][2]string{
	"Proto-Indo-European": {"#d9c7f2", "#5b4a7a"},
	"Germanic":            {"#bcd9f0", "#32536e"},
	"Romance":             {"#f6c9c9", "#74403f"},
	"Hellenic":            {"#c7e8d4", "#2f5d46"},
	"Celtic":              {"#d4ebc4", "#4a5f33"},
	"Slavic":              {"#f3d9b8", "#6e532f"},
	"Baltic":              {"#e4d9c9", "#5c5142"},
	"Indo-Iranian":        {"#f0ddc0", "#6e5a33"},
	"Semitic":             {"#ead0e4", "#643c5c"},
	"Uralic":              {"#cfe5e8", "#2f565c"},
	"Turkic":              {"#e6e3bd", "#5c5930"},
	"Sino-Tibetan":        {"#f3cfc0", "#6e4630"},
	"Japonic":             {"#f6d6e4", "#6e3d55"},
	"Koreanic":            {"#d6d9f2", "#3d4370"},
	"Austronesian":        {"#cce8df", "#2f5c50"},
	"Afro-Asiatic":        {"#ecd7c2", "#5f4a33"},
	"Dravidian":           {"#dcd2ea", "#4c4063"},
	lineage.FamilyOther:   {"#e2e2e2", "#4a4a4a"},
}

// FamilyColor returns the node fill for a family under the given theme.
func FamilyColor(f lineage.Family, dark bool) string {
	pair, ok := familyColors[f]
	if !ok {
		pair = familyColors[lineage.FamilyOther]
	}
	if dark {
		return pair[1]
	}
	return pair[0]
}
