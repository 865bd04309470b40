package domain

type GoogleSearchCard struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MetaFeedCard struct {
	ImageURL    string `json:"image_url,omitempty"`
	ImagePrompt string `json:"image_prompt,omitempty"`
	PrimaryText string `json:"primary_text"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
	URL         string `json:"url"`
}

// DisplayImage picks the card image, falling back to the operator's own image
func (c MetaFeedCard) DisplayImage(fallback string) string {
	if c.ImageURL != "" {
		return c.ImageURL
	}
	return fallback
}

type Preview struct {
	GoogleSearchCard *GoogleSearchCard `json:"google_search_card,omitempty"`
	MetaFeedCard     *MetaFeedCard     `json:"meta_feed_card,omitempty"`
}

// GenerationResult is the body returned by the generation service. Detail is
// only set when the service did not answer with a usable document.
type GenerationResult struct {
	Plan    any      `json:"plan,omitempty"`
	Preview *Preview `json:"preview,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

// HasPlan reports whether the result carries a plan that can be downloaded
func (r *GenerationResult) HasPlan() bool {
	return r != nil && r.Plan != nil
}

func (r *GenerationResult) HasPreview() bool {
	return r != nil && r.Preview != nil && (r.Preview.GoogleSearchCard != nil || r.Preview.MetaFeedCard != nil)
}

// RawResponse is what came back over the wire, before interpretation
type RawResponse struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
