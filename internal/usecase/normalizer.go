package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"adsstudio/internal/domain"
)

var schemePrefix = regexp.MustCompile(`(?i)^https?://`)

// Dedupe drops blank entries and repeats, keeping first-occurrence order.
// The result is never nil so a missing list still encodes as [].
func Dedupe[T ~string](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(string(item)) == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NormalizeURL returns the canonical absolute form of raw, or a best-effort
// https:// guess when raw is not absolute. The guess is not validated.
func NormalizeURL(raw string) string {
	if canonical, ok := canonicalURL(raw); ok {
		return canonical
	}
	if raw == "" {
		return ""
	}

	candidate := "https://" + schemePrefix.ReplaceAllString(raw, "")
	if canonical, ok := canonicalURL(candidate); ok {
		return canonical
	}
	return candidate
}

func canonicalURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	if u.Host == "" && u.Opaque == "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" || u.Scheme == "https") && u.Opaque == "" && u.Path == "" {
		if u.Host == "" {
			return "", false
		}
		u.Path = "/"
	}
	return u.String(), true
}

// CleanPayload builds the request body from a form snapshot. The form itself
// is left untouched.
func CleanPayload(form domain.CampaignForm) domain.RequestBody {
	body := domain.RequestBody{
		ProductName:       form.ProductName,
		ValueProp:         form.ValueProp,
		Website:           NormalizeURL(form.Website),
		LandingPath:       form.LandingPath,
		LocationCountries: Dedupe(form.LocationCountries),
		LocationCities:    Dedupe(form.LocationCities),
		Language:          form.Language,
		BudgetDaily:       form.BudgetDaily,
		Objective:         form.Objective,
		Platform:          Dedupe(form.Platform),
		Personas:          cleanPersonas(form.Personas),
		Promo:             form.Promo,
	}

	// base64 wins when present, image_url then only serves as preview reference
	if form.ImageBase64 != "" {
		body.ImageBase64 = form.ImageBase64
	}
	if form.ImageURL != "" {
		body.ImageURL = form.ImageURL
	}

	return body
}

func cleanPersonas(personas []domain.Persona) []domain.Persona {
	out := make([]domain.Persona, len(personas))
	for i, p := range personas {
		out[i] = domain.Persona{
			Name:      p.Name,
			AgeMin:    p.AgeMin,
			AgeMax:    p.AgeMax,
			Genders:   append([]string{}, p.Genders...),
			Pains:     append([]string{}, p.Pains...),
			Goals:     append([]string{}, p.Goals...),
			Interests: Dedupe(p.Interests),
			Keywords:  Dedupe(p.Keywords),
		}
	}
	return out
}
