package model

// RelatedKeyword is shared by the "all" list of the trend report and the
// shopping-related endpoint; the shopping variant fills the optional fields.
type RelatedKeyword struct {
	Keyword      string  `json:"keyword"`
	Relevance    float64 `json:"relevance"`
	SearchVolume string  `json:"search_volume"`
	Competition  string  `json:"competition,omitempty"`
	PriceRange   string  `json:"price_range,omitempty"`
	Category     string  `json:"category,omitempty"`
	Intent       string  `json:"intent,omitempty"`
}

// ShoppingKeywords is the /api/keyword/shopping-related payload.
type ShoppingKeywords struct {
	RelatedKeywords []RelatedKeyword `json:"related_keywords"`
}
