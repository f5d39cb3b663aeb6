package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

// WikipediaAPI proxies the encyclopedia geosearch endpoint.
type WikipediaAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewWikipediaAPI creates the wikipedia adapter.
func NewWikipediaAPI(base string, reg *health.Registry) *WikipediaAPI {
	return &WikipediaAPI{base: base, c: newClient(health.FeedWikipedia, 20*time.Second), health: reg}
}

// GeoSearch returns up to 50 articles within radius meters of the point.
func (a *WikipediaAPI) GeoSearch(ctx context.Context, q domain.GeoSearch) ([]domain.WikiArticle, error) {
	url := fmt.Sprintf(
		"%s/w/api.php?action=query&list=geosearch&gscoord=%g%%7C%g&gsradius=%g&gslimit=50&format=json",
		a.base, q.Lat, q.Lon, q.Radius)

	body, err := a.c.get(ctx, url)
	if err != nil {
		a.health.Set(health.FeedWikipedia, health.Red)
		return nil, err
	}
	a.health.Set(health.FeedWikipedia, health.Green)

	var payload struct {
		Query struct {
			GeoSearch []struct {
				PageID int64   `json:"pageid"`
				Title  string  `json:"title"`
				Lat    float64 `json:"lat"`
				Lon    float64 `json:"lon"`
				Dist   float64 `json:"dist"`
			} `json:"geosearch"`
		} `json:"query"`
	}
	// Undecodable 2xx bodies collapse to an empty result; red stays
	// reserved for failed requests.
	if err := json.Unmarshal(body, &payload); err != nil {
		return []domain.WikiArticle{}, nil
	}

	articles := make([]domain.WikiArticle, 0, len(payload.Query.GeoSearch))
	for _, g := range payload.Query.GeoSearch {
		articles = append(articles, domain.WikiArticle{
			PageID: g.PageID,
			Title:  g.Title,
			Lat:    g.Lat,
			Lon:    g.Lon,
			Dist:   g.Dist,
		})
	}
	return articles, nil
}
