//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"reviewdeck/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var BaseURL = getEnv("E2E_BASE_URL", "http://localhost:8083")

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newDeviceID() string {
	return "e2e-" + uuid.NewString()
}

func doRequest(t *testing.T, method, path, deviceID string, body interface{}) *http.Response {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, BaseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestFullReviewFlow(t *testing.T) {
	device := newDeviceID()
	suffix := uuid.NewString()[:8]
	product := "E2E Product " + suffix

	// Create
	resp := doRequest(t, http.MethodPost, "/reviews", device, entity.CreateReviewRequest{
		ProductName: product,
		Category:    string(entity.CategoryBooks),
		Rating:      4,
		Content:     "Good product here.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entity.Review
	decode(t, resp, &created)

	// List с поиском по названию
	resp = doRequest(t, http.MethodGet, "/reviews?search="+suffix, device, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listResp entity.ReviewListResponse
	decode(t, resp, &listResp)
	require.Equal(t, 1, listResp.Total)
	assert.Equal(t, created.ID, listResp.Reviews[0].ID)

	// Vote и повторный голос снимает его
	resp = doRequest(t, http.MethodPost, "/reviews/"+created.ID+"/vote", device, entity.VoteRequest{VoteType: "helpful"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var voted entity.Review
	decode(t, resp, &voted)
	assert.Equal(t, 1, voted.HelpfulVotes)
	assert.Equal(t, entity.VoteHelpful, voted.UserVote)

	resp = doRequest(t, http.MethodPost, "/reviews/"+created.ID+"/vote", device, entity.VoteRequest{VoteType: "helpful"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &voted)
	assert.Equal(t, 0, voted.HelpfulVotes)
	assert.Equal(t, entity.VoteNone, voted.UserVote)
}

func TestDraftWizardFlow(t *testing.T) {
	device := newDeviceID()

	resp := doRequest(t, http.MethodPost, "/session/draft", device, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPatch, "/session/draft", device, map[string]interface{}{
		"product_name": "E2E Wizard Product",
		"category":     "Clothing",
		"rating":       2,
		"content":      "Runs small",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view entity.DraftView
	decode(t, resp, &view)
	assert.True(t, view.CanAdvance)

	resp = doRequest(t, http.MethodPost, "/session/draft/submit", device, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entity.Review
	decode(t, resp, &created)
	assert.Equal(t, entity.AnonymousAuthor, created.Author)

	resp = doRequest(t, http.MethodGet, "/session/draft", device, nil)
	decode(t, resp, &view)
	assert.Equal(t, entity.ReviewDraft{}, view.Draft)
}

func TestGetNonExistentReview(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/reviews/"+uuid.NewString(), "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVoteWithoutIdentity(t *testing.T) {
	resp := doRequest(t, http.MethodPost, "/reviews/"+uuid.NewString()+"/vote", "", entity.VoteRequest{VoteType: "helpful"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestCreateReview_ValidationErrors тестирует валидацию
func TestCreateReview_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		request map[string]interface{}
		field   string
	}{
		{
			name:    "Rating too low",
			request: map[string]interface{}{"product_name": "P", "category": "Books", "rating": 0, "content": "Text"},
			field:   "rating",
		},
		{
			name:    "Rating too high",
			request: map[string]interface{}{"product_name": "P", "category": "Books", "rating": 6, "content": "Text"},
			field:   "rating",
		},
		{
			name:    "Empty content",
			request: map[string]interface{}{"product_name": "P", "category": "Books", "rating": 5, "content": "   "},
			field:   "content",
		},
		{
			name:    "Unknown category",
			request: map[string]interface{}{"product_name": "P", "category": "All", "rating": 5, "content": "Text"},
			field:   "category",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, "/reviews", "", tc.request)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp entity.ErrorResponse
			decode(t, resp, &errResp)
			assert.Contains(t, errResp.Fields, tc.field)
		})
	}
}
