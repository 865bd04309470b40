package usecase

import (
	"encoding/json"
	"testing"

	"adsstudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	t.Run("removes blanks and repeats", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, Dedupe([]string{"a", "", "b", "a"}))
	})
	t.Run("keeps first occurrence order", func(t *testing.T) {
		assert.Equal(t, []string{"b", "a", "c"}, Dedupe([]string{"b", "a", "b", "  ", "c", "a"}))
	})
	t.Run("is case sensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Apple", "apple"}, Dedupe([]string{"Apple", "apple"}))
	})
	t.Run("nil gives empty slice", func(t *testing.T) {
		out := Dedupe[string](nil)
		require.NotNil(t, out)
		assert.Empty(t, out)
	})
	t.Run("all blank gives empty slice", func(t *testing.T) {
		out := Dedupe([]string{"", " "})
		require.NotNil(t, out)
		assert.Empty(t, out)
	})
	t.Run("works on platforms", func(t *testing.T) {
		in := []domain.Platform{domain.PlatformMeta, domain.PlatformGoogle, domain.PlatformMeta, ""}
		assert.Equal(t, []domain.Platform{domain.PlatformMeta, domain.PlatformGoogle}, Dedupe(in))
	})
}

func TestDedupe_Idempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{},
		{"a"},
		{"a", "a", "a"},
		{"", "x", "", "y", "x"},
		{"iphone 14", "comprar iphone", "iphone 14", " ", "iphone 14 precio"},
	}
	for _, in := range inputs {
		once := Dedupe(in)
		assert.Equal(t, once, Dedupe(once), "input %q", in)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare host gets scheme and slash", "libertyclub.io", "https://libertyclub.io/"},
		{"absolute url unchanged", "https://x.com/y", "https://x.com/y"},
		{"empty stays empty", "", ""},
		{"canonical root slash", "https://libertyclub.io", "https://libertyclub.io/"},
		{"lowercases scheme and host", "HTTPS://Shop.Example.COM/Path", "https://shop.example.com/Path"},
		{"keeps http", "http://example.com", "http://example.com/"},
		{"keeps query", "https://shop.io/a?b=1", "https://shop.io/a?b=1"},
		{"bare host with path", "shop.io/iphone-14", "https://shop.io/iphone-14"},
		{"surrounding spaces", "  https://x.com/y  ", "https://x.com/y"},
		{"unparseable guess returned as is", "my site.com", "https://my site.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.raw))
		})
	}
}

func TestCleanPayload_ListsAndWebsite(t *testing.T) {
	form := domain.CampaignForm{
		ProductName:       "iPhone 14",
		Website:           "libertyclub.io",
		LocationCountries: []string{"AR", "", "AR", "UY"},
		LocationCities:    []string{"Buenos Aires", "Buenos Aires"},
		BudgetDaily:       domain.BudgetOf(50),
		Platform:          []domain.Platform{domain.PlatformGoogle, domain.PlatformGoogle, domain.PlatformMeta},
		Personas: []domain.Persona{
			{Name: "One", Interests: []string{"A", "B", "A"}, Keywords: []string{"k1", "", "k1"}},
			{Name: "Two", Interests: []string{"B", "C"}, Keywords: []string{"k1"}},
		},
	}

	body := CleanPayload(form)

	assert.Equal(t, "https://libertyclub.io/", body.Website)
	assert.Equal(t, []string{"AR", "UY"}, body.LocationCountries)
	assert.Equal(t, []string{"Buenos Aires"}, body.LocationCities)
	assert.Equal(t, []domain.Platform{domain.PlatformGoogle, domain.PlatformMeta}, body.Platform)
	require.Len(t, body.Personas, 2)
	assert.Equal(t, []string{"A", "B"}, body.Personas[0].Interests)
	assert.Equal(t, []string{"k1"}, body.Personas[0].Keywords)
	// no dedupe across personas
	assert.Equal(t, []string{"B", "C"}, body.Personas[1].Interests)
	assert.Equal(t, []string{"k1"}, body.Personas[1].Keywords)

	// the form snapshot is untouched
	assert.Equal(t, "libertyclub.io", form.Website)
	assert.Equal(t, []string{"AR", "", "AR", "UY"}, form.LocationCountries)
	assert.Equal(t, []string{"A", "B", "A"}, form.Personas[0].Interests)
}

func TestCleanPayload_ImageResolution(t *testing.T) {
	encode := func(t *testing.T, body domain.RequestBody) map[string]any {
		t.Helper()
		data, err := json.Marshal(body)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}

	t.Run("base64 without url", func(t *testing.T) {
		out := encode(t, CleanPayload(domain.CampaignForm{ImageBase64: "data:image/png;base64,AAAA"}))
		assert.Equal(t, "data:image/png;base64,AAAA", out["image_base64"])
		assert.NotContains(t, out, "image_url")
	})
	t.Run("base64 keeps preview url", func(t *testing.T) {
		out := encode(t, CleanPayload(domain.CampaignForm{
			ImageBase64: "data:image/png;base64,AAAA",
			ImageURL:    "blob:preview",
		}))
		assert.Equal(t, "data:image/png;base64,AAAA", out["image_base64"])
		assert.Equal(t, "blob:preview", out["image_url"])
	})
	t.Run("pasted url alone", func(t *testing.T) {
		out := encode(t, CleanPayload(domain.CampaignForm{ImageURL: "https://cdn.example.com/a.png"}))
		assert.Equal(t, "https://cdn.example.com/a.png", out["image_url"])
		assert.NotContains(t, out, "image_base64")
	})
	t.Run("no image", func(t *testing.T) {
		out := encode(t, CleanPayload(domain.CampaignForm{}))
		assert.NotContains(t, out, "image_url")
		assert.NotContains(t, out, "image_base64")
	})
}

func TestCleanPayload_MissingListsEncodeAsEmptyArrays(t *testing.T) {
	form := domain.CampaignForm{
		ProductName: "iPhone 14",
		Personas:    []domain.Persona{{Name: "General"}},
	}

	data, err := json.Marshal(CleanPayload(form))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	for _, key := range []string{"location_countries", "location_cities", "platform"} {
		assert.Equal(t, []any{}, out[key], key)
	}

	persona := out["personas"].([]any)[0].(map[string]any)
	for _, key := range []string{"genders", "pains", "goals", "interests", "keywords"} {
		assert.Equal(t, []any{}, persona[key], key)
	}

	data, err = json.Marshal(CleanPayload(domain.CampaignForm{}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"personas":[]`)
}
