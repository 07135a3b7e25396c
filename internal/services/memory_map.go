package services

import (
	"strings"
	"time"

	"couple-journal-backend/internal/models"
)

// Map memory categories.
const (
	CategoryFirstDate   = "first_date"
	CategoryRestaurant  = "restaurant"
	CategoryTravel      = "travel"
	CategoryHome        = "home"
	CategoryAnniversary = "anniversary"
	CategorySpecial     = "special"
)

// Mood glyphs by rating.
const (
	GlyphVeryHappy = "😍"
	GlyphHappy     = "😊"
	GlyphContent   = "🙂"
	GlyphNeutral   = "😐"
	GlyphSad       = "😔"
	GlyphDefault   = GlyphHappy
)

// categoryRules is checked in order; the first matching rule wins.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{CategoryFirstDate, []string{"café", "cafe", "coffee", "gặp"}},
	{CategoryRestaurant, []string{"restaurant", "nhà hàng"}},
	{CategoryTravel, []string{"du lịch", "hồ", "đà lạt"}},
	{CategoryHome, []string{"nhà", "home"}},
	{CategoryAnniversary, []string{"kỷ niệm", "anniversary"}},
}

// Memory is the map-facing view of a place.
type Memory struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Coordinates [2]float64 `json:"coordinates"`
	Date        *time.Time `json:"date,omitempty"`
	Category    string     `json:"category"`
	Mood        string     `json:"mood"`
	Photos      []string   `json:"photos"`
	Address     string     `json:"address,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
}

// ToMemory converts a stored place into its map representation.
func ToMemory(p *models.Place) Memory {
	description := p.Description
	if strings.TrimSpace(description) == "" {
		description = p.Memories
	}
	date := p.VisitDate
	if date == nil && !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		date = &created
	}
	photos := []string(p.Photos)
	if photos == nil {
		photos = []string{}
	}
	return Memory{
		ID:          p.ID,
		Title:       p.Name,
		Description: description,
		Coordinates: [2]float64{p.Latitude, p.Longitude},
		Date:        date,
		Category:    ClassifyPlace(p.Name),
		Mood:        MoodGlyph(p.Rating),
		Photos:      photos,
		Address:     p.Address,
		Rating:      p.Rating,
	}
}

// ClassifyPlace derives a category from keywords in the place name.
func ClassifyPlace(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return CategorySpecial
}

// MoodGlyph maps a 1-5 rating to an emoji.
func MoodGlyph(rating *int) string {
	if rating == nil {
		return GlyphDefault
	}
	switch r := *rating; {
	case r >= 5:
		return GlyphVeryHappy
	case r >= 4:
		return GlyphHappy
	case r >= 3:
		return GlyphContent
	case r >= 2:
		return GlyphNeutral
	default:
		return GlyphSad
	}
}
