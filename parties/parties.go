// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package parties

import (
	"strconv"
	"strings"

	"github.com/danielhkuo/election-results/models"
)

// FallbackColor is used for parties without a configured colour.
const FallbackColor = "#d3d3d3"

// brightness above which dark text is used on a party colour
const lightThreshold = 160

// Party is the configured display entry of one party.
type Party struct {
	Name    string   `koanf:"name"`
	Aliases []string `koanf:"aliases"`
	Color   string   `koanf:"color"`
}

// Defaults returns the palette of the parties contesting the 2024 elections.
func Defaults() []Party {
	return []Party{
		{Name: "African National Congress", Aliases: []string{"ANC"}, Color: "#007a33"},
		{Name: "Democratic Alliance", Aliases: []string{"DA"}, Color: "#0047ab"},
		{Name: "Economic Freedom Fighters", Aliases: []string{"EFF"}, Color: "#d71a28"},
		{Name: "uMkhonto weSizwe", Aliases: []string{"MK Party", "MK"}, Color: "#000000"},
		{Name: "Inkatha Freedom Party", Aliases: []string{"IFP"}, Color: "#ffcc00"},
		{Name: "ActionSA", Color: "#800080"},
		{Name: "Freedom Front Plus", Aliases: []string{"VF+", "FF+"}, Color: "#f7941d"},
	}
}

// Registry resolves party names and aliases to display styles.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	parties []models.PartyStyle
	index   map[string]int
}

// NewRegistry builds a registry from the given parties. Later entries
// override earlier ones with the same name or alias.
func NewRegistry(parties []Party) *Registry {
	reg := &Registry{index: make(map[string]int)}

	for _, p := range parties {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		color := normalizeColor(p.Color)
		style := models.PartyStyle{
			Name:      name,
			Aliases:   p.Aliases,
			Color:     color,
			TextColor: TextColor(color),
		}

		pos, exists := reg.index[key(name)]
		if exists {
			reg.parties[pos] = style
		} else {
			pos = len(reg.parties)
			reg.parties = append(reg.parties, style)
		}

		reg.index[key(name)] = pos
		for _, alias := range p.Aliases {
			if strings.TrimSpace(alias) != "" {
				reg.index[key(alias)] = pos
			}
		}
	}

	return reg
}

// Lookup returns the style for a party name or alias (case-insensitive).
// Unknown parties get the fallback colour under their own name.
func (r *Registry) Lookup(name string) models.PartyStyle {
	if pos, ok := r.index[key(name)]; ok {
		return r.parties[pos]
	}
	return models.PartyStyle{
		Name:      name,
		Color:     FallbackColor,
		TextColor: TextColor(FallbackColor),
	}
}

// Color is shorthand for Lookup(name).Color.
func (r *Registry) Color(name string) string {
	return r.Lookup(name).Color
}

// All returns the configured parties in configuration order.
func (r *Registry) All() []models.PartyStyle {
	out := make([]models.PartyStyle, len(r.parties))
	copy(out, r.parties)
	return out
}

// TextColor picks black or white text for a "#rrggbb" background using
// perceived brightness (r*299 + g*587 + b*114) / 1000.
func TextColor(hex string) string {
	if IsLight(hex) {
		return "#000"
	}
	return "#fff"
}

// IsLight reports whether a "#rrggbb" colour is brighter than the threshold.
// Malformed colours are treated as dark.
func IsLight(hex string) bool {
	c := strings.TrimPrefix(hex, "#")
	if len(c) != 6 {
		return false
	}
	rgb, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return false
	}

	r := (rgb >> 16) & 0xff
	g := (rgb >> 8) & 0xff
	b := rgb & 0xff
	brightness := float64(r*299+g*587+b*114) / 1000
	return brightness > lightThreshold
}

func normalizeColor(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return FallbackColor
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	return color
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
