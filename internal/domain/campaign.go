package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Objective string

const (
	ObjectiveConversions Objective = "conversions"
	ObjectiveLeadgen     Objective = "leadgen"
	ObjectiveTraffic     Objective = "traffic"
	ObjectiveReach       Objective = "reach"
	ObjectiveAwareness   Objective = "awareness"
)

type Platform string

const (
	PlatformGoogle Platform = "google"
	PlatformMeta   Platform = "meta"
)

// Budget holds the daily budget exactly as entered. The empty string is the
// "nothing entered" marker.
type Budget string

// Float coerces the budget to a finite number
func (b Budget) Float() (float64, bool) {
	raw := strings.TrimSpace(string(b))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func (b Budget) IsEmpty() bool {
	return b == ""
}

func (b Budget) MarshalJSON() ([]byte, error) {
	if b.IsEmpty() {
		return []byte(`""`), nil
	}
	if value, ok := b.Float(); ok {
		return json.Marshal(value)
	}
	return json.Marshal(string(b))
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid budget: %w", err)
		}
		*b = Budget(raw)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("invalid budget: %w", err)
	}
	*b = Budget(number.String())
	return nil
}

// BudgetOf formats a numeric budget
func BudgetOf(value float64) Budget {
	return Budget(strconv.FormatFloat(value, 'f', -1, 64))
}

// audience segment used to build platform targeting
type Persona struct {
	Name      string   `json:"name"`
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	Genders   []string `json:"genders"`
	Pains     []string `json:"pains"`
	Goals     []string `json:"goals"`
	Interests []string `json:"interests"`
	Keywords  []string `json:"keywords"`
}

// CampaignForm is the raw form state as edited by the operator. Lists may
// carry blanks and duplicates until the payload is cleaned.
type CampaignForm struct {
	ProductName       string     `json:"product_name"`
	ValueProp         string     `json:"value_prop"`
	Website           string     `json:"website"`
	LandingPath       string     `json:"landing_path"`
	LocationCountries []string   `json:"location_countries"`
	LocationCities    []string   `json:"location_cities"`
	Language          string     `json:"language"`
	BudgetDaily       Budget     `json:"budget_daily"`
	Objective         Objective  `json:"objective"`
	Platform          []Platform `json:"platform"`
	Personas          []Persona  `json:"personas"`
	Promo             string     `json:"promo"`
	ImageURL          string     `json:"image_url"`
	ImageBase64       string     `json:"image_base64"`
}

// RequestBody is the canonical body sent to the generation service
type RequestBody struct {
	ProductName       string     `json:"product_name"`
	ValueProp         string     `json:"value_prop"`
	Website           string     `json:"website"`
	LandingPath       string     `json:"landing_path"`
	LocationCountries []string   `json:"location_countries"`
	LocationCities    []string   `json:"location_cities"`
	Language          string     `json:"language"`
	BudgetDaily       Budget     `json:"budget_daily"`
	Objective         Objective  `json:"objective"`
	Platform          []Platform `json:"platform"`
	Personas          []Persona  `json:"personas"`
	Promo             string     `json:"promo"`
	ImageURL          string     `json:"image_url,omitempty"`
	ImageBase64       string     `json:"image_base64,omitempty"`
}

func DefaultPersona() Persona {
	return Persona{
		Name:      "General 25-45",
		AgeMin:    25,
		AgeMax:    45,
		Genders:   []string{"unknown"},
		Pains:     []string{"no up-to-date phone"},
		Goals:     []string{"better performance"},
		Interests: []string{"Technology", "Apple", "iOS"},
		Keywords:  []string{"iphone 14", "buy iphone", "iphone 14 price"},
	}
}

// DefaultCampaignForm returns the form an operator starts from
func DefaultCampaignForm() CampaignForm {
	return CampaignForm{
		ProductName:       "iPhone 14 128GB",
		ValueProp:         "Official warranty and 24h shipping",
		Website:           "https://libertyclub.io/",
		LandingPath:       "/iphone-14",
		LocationCountries: []string{"AR"},
		LocationCities:    []string{"Buenos Aires"},
		Language:          "es",
		BudgetDaily:       BudgetOf(50),
		Objective:         ObjectiveConversions,
		Platform:          []Platform{PlatformGoogle, PlatformMeta},
		Personas:          []Persona{DefaultPersona()},
		Promo:             "12 interest-free installments and free shipping",
	}
}

// AddPersona appends a default persona named after its position
func (f CampaignForm) AddPersona() CampaignForm {
	persona := DefaultPersona()
	persona.Name = fmt.Sprintf("Segment %d", len(f.Personas)+1)

	personas := make([]Persona, 0, len(f.Personas)+1)
	personas = append(personas, f.Personas...)
	f.Personas = append(personas, persona)
	return f
}

// RemovePersona drops the persona at index i; out of range is a no-op
func (f CampaignForm) RemovePersona(i int) CampaignForm {
	if i < 0 || i >= len(f.Personas) {
		return f
	}
	personas := make([]Persona, 0, len(f.Personas)-1)
	personas = append(personas, f.Personas[:i]...)
	f.Personas = append(personas, f.Personas[i+1:]...)
	return f
}

// ResetPersonas keeps a single default persona
func (f CampaignForm) ResetPersonas() CampaignForm {
	f.Personas = []Persona{DefaultPersona()}
	return f
}

// WithImageURL sets a pasted image URL. A pasted URL replaces any uploaded file.
func (f CampaignForm) WithImageURL(url string) CampaignForm {
	f.ImageURL = url
	f.ImageBase64 = ""
	return f
}

// WithUploadedImage stores an encoded upload with its preview reference
func (f CampaignForm) WithUploadedImage(dataURL, previewURL string) CampaignForm {
	f.ImageBase64 = dataURL
	f.ImageURL = previewURL
	return f
}

func (f CampaignForm) ClearImage() CampaignForm {
	f.ImageURL = ""
	f.ImageBase64 = ""
	return f
}
