package domain

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// AppData is the fixed-shape request body sent to the prediction endpoint.
type AppData struct {
	AppName       string  `json:"app_name"`
	Category      string  `json:"category"`
	AppType       string  `json:"app_type"`
	Price         float64 `json:"price"`
	ContentRating string  `json:"content_rating"`
	Size          string  `json:"size"`
}

// PredictionResult is the outcome of a single enrichment call. Prediction
// keeps the decoded response body verbatim.
type PredictionResult struct {
	Success    bool            `json:"success"`
	Prediction json.RawMessage `json:"prediction,omitempty"`
	AppData    *AppData        `json:"appData,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Estimate holds the numeric fields read out of a prediction body.
type Estimate struct {
	Installs        int64
	Rating          float64
	Reviews         int64
	SuccessCategory string
}

// Estimate reads installs/rating/reviews from the nested "prediction"
// object, falling back to top-level fields when the body is flat. Missing
// numbers read as zero.
func (r PredictionResult) Estimate() Estimate {
	raw := []byte(r.Prediction)
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Estimate{}
	}
	pick := func(path string) gjson.Result {
		if v := gjson.GetBytes(raw, "prediction."+path); v.Exists() {
			return v
		}
		return gjson.GetBytes(raw, path)
	}
	return Estimate{
		Installs:        pick("installs").Int(),
		Rating:          pick("rating").Float(),
		Reviews:         pick("reviews").Int(),
		SuccessCategory: pick("success_category").String(),
	}
}

// Stats is the summary persisted alongside a project when a prediction
// succeeded.
type Stats struct {
	ExpectedInstalls int64   `json:"expectedInstalls"`
	ExpectedRating   float64 `json:"expectedRating"`
	ExpectedReviews  int64   `json:"expectedReviews"`
	SuccessCategory  string  `json:"successCategory"`
}

// StatsFromPrediction derives Stats from a successful prediction. It
// returns nil for a nil or failed result.
func StatsFromPrediction(r *PredictionResult) *Stats {
	if r == nil || !r.Success {
		return nil
	}
	e := r.Estimate()
	cat := e.SuccessCategory
	if cat == "" {
		cat = "Unknown"
	}
	return &Stats{
		ExpectedInstalls: e.Installs,
		ExpectedRating:   e.Rating,
		ExpectedReviews:  e.Reviews,
		SuccessCategory:  cat,
	}
}
