package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// placeholderPoster is served when OMDb has no artwork for a movie.
const placeholderPoster = "https://castlewoodassistedliving.com/wp-content/uploads/2021/01/image-coming-soon-placeholder.png"

// OMDBClient looks up movie posters during ingestion.
type OMDBClient struct {
	apiKey string
	http   *http.Client
}

func NewOMDBClient(apiKey string) *OMDBClient {
	return &OMDBClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// MovieCover resolves a poster URL by IMDb id, falling back to a
// placeholder on any failure. Ingestion never stops for a missing
// poster.
func (c *OMDBClient) MovieCover(ctx context.Context, imdbID string) string {
	if c.apiKey == "" || imdbID == "" {
		return placeholderPoster
	}

	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://www.omdbapi.com/?"+q.Encode(), nil)
	if err != nil {
		return placeholderPoster
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return placeholderPoster
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return placeholderPoster
	}

	var body struct {
		Poster string `json:"Poster"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return placeholderPoster
	}
	if body.Poster == "" || body.Poster == "N/A" {
		return placeholderPoster
	}
	return body.Poster
}
