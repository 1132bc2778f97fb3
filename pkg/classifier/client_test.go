package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echohealth-screening-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testProfile() *domain.SymptomProfile {
	return &domain.SymptomProfile{
		Age:            55,
		Gender:         domain.GenderMale,
		TobaccoUse:     true,
		OralLesions:    true,
		PriorDiagnosis: true,
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(domain.ClassifierConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, testLogger())
}

func TestClassifySuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"probability": 0.92, "recommendations": ["See a specialist"]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Classify(context.Background(), testProfile(), "secret-token")
	require.NoError(t, err)

	assert.Equal(t, "/api/symptom-check/", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	require.NotNil(t, resp.Probability)
	assert.InDelta(t, 0.92, *resp.Probability, 1e-9)
	assert.Equal(t, []string{"See a specialist"}, resp.Recommendations)
}

func TestClassifyRequestShape(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"risk_score": 10}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "")
	require.NoError(t, err)

	assert.Equal(t, "symptoms", gotBody["mode"])

	features, ok := gotBody["features"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(55), features["Age"])
	assert.Equal(t, "male", features["Gender"])
	assert.Equal(t, float64(1), features["Tobacco_Use"])
	assert.Equal(t, float64(0), features["Alcohol_Consumption"])
	assert.Equal(t, float64(1), features["Oral_Lesions"])
	assert.Equal(t, float64(0), features["White_or_Red_Patches_in_Mouth"])
	assert.Equal(t, float64(1), features["Oral_Cancer_Diagnosis"])
}

func TestClassifyNoTokenOmitsAuthHeader(t *testing.T) {
	var sawAuth bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"risk_score": 10}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "")
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestClassifyUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.False(t, domain.IsFallbackEligible(err))
}

func TestClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "")
	require.Error(t, err)

	var rerr *domain.RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusInternalServerError, rerr.StatusCode)
	assert.True(t, errors.Is(err, domain.ErrRemoteUnavailable))
	assert.True(t, domain.IsFallbackEligible(err))
}

func TestClassifyConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteUnavailable))
}

func TestClassifyMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), testProfile(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.True(t, domain.IsFallbackEligible(err))
}

func TestClassifyCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"risk_score": 10}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.Classify(ctx, testProfile(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
