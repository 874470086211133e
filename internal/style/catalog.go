package style

import (
	"errors"
	"strings"
)

type ID string

const (
	Corporate ID = "corporate"
	Tech      ID = "tech"
	Outdoor   ID = "outdoor"
	Studio    ID = "studio"
	Custom    ID = "custom"
)

// Default is the style selected for a fresh session.
const Default = Corporate

type Icon string

const (
	IconBriefcase Icon = "briefcase"
	IconCPU       Icon = "cpu"
	IconSun       Icon = "sun"
	IconCamera    Icon = "camera"
	IconEdit      Icon = "edit"
)

var ErrUnknownStyle = errors.New("unknown style")

type Option struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptModifier string `json:"promptModifier"`
	Icon           Icon   `json:"icon"`
}

// IsCustom reports whether the option takes its instruction entirely from user text.
func (o Option) IsCustom() bool {
	return o.ID == Custom
}

var order = []ID{Corporate, Tech, Outdoor, Studio, Custom}

var options = map[ID]Option{
	Corporate: {
		ID:             Corporate,
		Name:           "Corporate Grey",
		Description:    "Classic grey backdrop, business suit, neutral lighting.",
		PromptModifier: "Change the background to a professional grey studio backdrop. Change clothing to a dark navy or charcoal business suit. Ensure lighting is even and professional.",
		Icon:           IconBriefcase,
	},
	Tech: {
		ID:             Tech,
		Name:           "Modern Tech",
		Description:    "Bright modern office background, smart casual attire.",
		PromptModifier: "Change the background to a blurred, bright modern tech office with glass walls. Change clothing to smart casual tech industry attire (e.g., high-quality t-shirt with blazer or crisp button-down). Lighting should be bright and airy.",
		Icon:           IconCPU,
	},
	Outdoor: {
		ID:             Outdoor,
		Name:           "Outdoor Natural",
		Description:    "Soft blurred nature background, natural light.",
		PromptModifier: "Change the background to a soft-focus outdoor park setting with greenery. Change clothing to professional yet approachable business casual. Use warm, natural golden-hour lighting.",
		Icon:           IconSun,
	},
	Studio: {
		ID:             Studio,
		Name:           "Dark Studio",
		Description:    "Dramatic dark backdrop, high-contrast lighting.",
		PromptModifier: "Change the background to a dark, moody black or dark blue texture. Use dramatic studio lighting (rembrandt style) to highlight facial features. Change clothing to a sleek, dark monochrome outfit.",
		Icon:           IconCamera,
	},
	Custom: {
		ID:          Custom,
		Name:        "Custom",
		Description: "Describe exactly what you have in mind.",
		Icon:        IconEdit,
	},
}

// Catalog returns the styles in display order.
func Catalog() []Option {
	out := make([]Option, 0, len(order))
	for _, id := range order {
		out = append(out, options[id])
	}
	return out
}

// Lookup finds a style by id. Surrounding whitespace and case are ignored.
func Lookup(id string) (Option, error) {
	key := ID(strings.ToLower(strings.TrimSpace(id)))
	opt, ok := options[key]
	if !ok {
		return Option{}, ErrUnknownStyle
	}
	return opt, nil
}

// MustLookup is Lookup for ids known to be in the catalog.
func MustLookup(id ID) Option {
	opt, ok := options[id]
	if !ok {
		panic("style: unknown id " + string(id))
	}
	return opt
}
