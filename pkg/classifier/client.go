package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/echohealth-screening-server/internal/domain"
)

// Client is the HTTP client for the remote risk classification API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Logger
}

// NewClient creates a new classifier API client.
func NewClient(config domain.ClassifierConfig, logger *logrus.Logger) *Client {
	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		log:     logger,
	}
}

// symptomCheckRequest is the wire shape of a classification request. The
// feature names and 0/1 indicator encoding are fixed by the backend model.
type symptomCheckRequest struct {
	Mode     string          `json:"mode"`
	Features symptomFeatures `json:"features"`
}

type symptomFeatures struct {
	Age                  int    `json:"Age"`
	Gender               string `json:"Gender"`
	TobaccoUse           int    `json:"Tobacco_Use"`
	AlcoholConsumption   int    `json:"Alcohol_Consumption"`
	HPVInfection         int    `json:"HPV_Infection"`
	BetelQuidUse         int    `json:"Betel_Quid_Use"`
	PoorOralHygiene      int    `json:"Poor_Oral_Hygiene"`
	OralLesions          int    `json:"Oral_Lesions"`
	UnexplainedBleeding  int    `json:"Unexplained_Bleeding"`
	DifficultySwallowing int    `json:"Difficulty_Swallowing"`
	WhiteRedPatches      int    `json:"White_or_Red_Patches_in_Mouth"`
	OralCancerDiagnosis  int    `json:"Oral_Cancer_Diagnosis"`
}

// Classify submits a symptom profile and returns the raw remote payload.
// Non-2xx responses carry no guaranteed body shape and map onto the failure
// taxonomy: 401 to ErrUnauthorized, everything else to an opaque RemoteError.
func (c *Client) Classify(ctx context.Context, profile *domain.SymptomProfile, token string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(buildRequest(profile))
	if err != nil {
		return nil, fmt.Errorf("encoding classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/symptom-check/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("Classifier request failed")
		return nil, fmt.Errorf("classify request: %w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
		}).Warn("Classifier returned non-2xx status")
		return nil, &domain.RemoteError{StatusCode: resp.StatusCode}
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A 2xx body that does not decode is treated the same as one that
		// decodes but carries no recognized fields.
		return nil, fmt.Errorf("decoding classify response: %w", domain.ErrMalformedResponse)
	}

	return &payload, nil
}

func buildRequest(p *domain.SymptomProfile) symptomCheckRequest {
	return symptomCheckRequest{
		Mode: "symptoms",
		Features: symptomFeatures{
			Age:                  p.Age,
			Gender:               string(p.Gender),
			TobaccoUse:           indicator(p.TobaccoUse),
			AlcoholConsumption:   indicator(p.AlcoholConsumption),
			HPVInfection:         indicator(p.HPVInfection),
			BetelQuidUse:         indicator(p.BetelQuidUse),
			PoorOralHygiene:      indicator(p.PoorOralHygiene),
			OralLesions:          indicator(p.OralLesions),
			UnexplainedBleeding:  indicator(p.UnexplainedBleeding),
			DifficultySwallowing: indicator(p.DifficultySwallowing),
			WhiteRedPatches:      indicator(p.WhiteRedPatches),
			OralCancerDiagnosis:  indicator(p.PriorDiagnosis),
		},
	}
}

func indicator(b bool) int {
	if b {
		return 1
	}
	return 0
}
