package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_Float(t *testing.T) {
	tests := []struct {
		budget Budget
		want   float64
		ok     bool
	}{
		{"50", 50, true},
		{" 12.5 ", 12.5, true},
		{"0", 0, true},
		{"", 0, false},
		{"fifty", 0, false},
		{"NaN", 0, false},
		{"+Inf", 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.budget.Float()
		assert.Equal(t, tt.ok, ok, "budget %q", tt.budget)
		assert.Equal(t, tt.want, got, "budget %q", tt.budget)
	}
}

func TestBudget_JSON(t *testing.T) {
	t.Run("numbers encode as numbers", func(t *testing.T) {
		data, err := json.Marshal(struct {
			B Budget `json:"b"`
		}{BudgetOf(50)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"b":50}`, string(data))
	})
	t.Run("empty encodes as empty string", func(t *testing.T) {
		data, err := json.Marshal(Budget(""))
		require.NoError(t, err)
		assert.Equal(t, `""`, string(data))
	})
	t.Run("text is kept as a string", func(t *testing.T) {
		data, err := json.Marshal(Budget("fifty"))
		require.NoError(t, err)
		assert.Equal(t, `"fifty"`, string(data))
	})
	t.Run("decodes numbers strings and null", func(t *testing.T) {
		var v struct {
			A Budget `json:"a"`
			B Budget `json:"b"`
			C Budget `json:"c"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":25.5,"b":"40","c":null}`), &v))
		assert.Equal(t, Budget("25.5"), v.A)
		assert.Equal(t, Budget("40"), v.B)
		assert.Equal(t, Budget(""), v.C)
	})
	t.Run("rejects objects", func(t *testing.T) {
		var b Budget
		assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &b))
	})
}

func TestDefaultCampaignForm(t *testing.T) {
	form := DefaultCampaignForm()

	assert.Equal(t, "iPhone 14 128GB", form.ProductName)
	assert.Equal(t, "https://libertyclub.io/", form.Website)
	assert.Equal(t, ObjectiveConversions, form.Objective)
	assert.Equal(t, []Platform{PlatformGoogle, PlatformMeta}, form.Platform)
	require.Len(t, form.Personas, 1)

	budget, ok := form.BudgetDaily.Float()
	require.True(t, ok)
	assert.Equal(t, 50.0, budget)
}

func TestCampaignForm_Personas(t *testing.T) {
	form := DefaultCampaignForm()

	added := form.AddPersona().AddPersona()
	require.Len(t, added.Personas, 3)
	assert.Equal(t, "Segment 2", added.Personas[1].Name)
	assert.Equal(t, "Segment 3", added.Personas[2].Name)
	assert.Len(t, form.Personas, 1, "original form must not change")

	removed := added.RemovePersona(1)
	require.Len(t, removed.Personas, 2)
	assert.Equal(t, "Segment 3", removed.Personas[1].Name)
	assert.Len(t, added.Personas, 3)

	assert.Equal(t, removed, removed.RemovePersona(5))
	assert.Equal(t, removed, removed.RemovePersona(-1))

	reset := added.ResetPersonas()
	assert.Equal(t, []Persona{DefaultPersona()}, reset.Personas)
}

func TestCampaignForm_Images(t *testing.T) {
	uploaded := CampaignForm{}.WithUploadedImage("data:image/png;base64,AAAA", "blob:preview")
	assert.Equal(t, "data:image/png;base64,AAAA", uploaded.ImageBase64)
	assert.Equal(t, "blob:preview", uploaded.ImageURL)

	pasted := uploaded.WithImageURL("https://cdn.example.com/a.png")
	assert.Equal(t, "https://cdn.example.com/a.png", pasted.ImageURL)
	assert.Empty(t, pasted.ImageBase64)

	cleared := uploaded.ClearImage()
	assert.Empty(t, cleared.ImageURL)
	assert.Empty(t, cleared.ImageBase64)
}

func TestMetaFeedCard_DisplayImage(t *testing.T) {
	assert.Equal(t, "https://img/a.png", MetaFeedCard{ImageURL: "https://img/a.png"}.DisplayImage("fallback"))
	assert.Equal(t, "fallback", MetaFeedCard{}.DisplayImage("fallback"))
}

func TestGenerationResult_Presence(t *testing.T) {
	var nilResult *GenerationResult
	assert.False(t, nilResult.HasPlan())
	assert.False(t, nilResult.HasPreview())

	assert.False(t, (&GenerationResult{Preview: &Preview{}}).HasPreview())
	assert.True(t, (&GenerationResult{Preview: &Preview{MetaFeedCard: &MetaFeedCard{}}}).HasPreview())
	assert.True(t, (&GenerationResult{Plan: map[string]any{}}).HasPlan())
}
