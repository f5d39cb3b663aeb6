package viewport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin HTTP client for the aggregation gateway's feed endpoints.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a gateway client. base is the gateway root, without a
// trailing slash.
func NewClient(base string) *Client {
	return &Client{base: base, http: &http.Client{Timeout: 40 * time.Second}}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned %d for %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *Client) Aviation(ctx context.Context, box BoundingBox) ([]FlightRecord, error) {
	var records []FlightRecord
	err := c.getJSON(ctx, fmt.Sprintf("/api/aviation?south=%g&west=%g&north=%g&east=%g",
		box.South, box.West, box.North, box.East), &records)
	return records, err
}

func (c *Client) Hazards(ctx context.Context) ([]HazardEvent, error) {
	var events []HazardEvent
	err := c.getJSON(ctx, "/api/hazards", &events)
	return events, err
}

func (c *Client) Wikipedia(ctx context.Context, lat, lon, radius float64) ([]WikiArticle, error) {
	var articles []WikiArticle
	err := c.getJSON(ctx, fmt.Sprintf("/api/wikipedia?lat=%g&lon=%g&radius=%g", lat, lon, radius), &articles)
	return articles, err
}

func (c *Client) Surveillance(ctx context.Context, box BoundingBox) ([]SurveillanceCamera, error) {
	var cameras []SurveillanceCamera
	err := c.getJSON(ctx, fmt.Sprintf("/api/surveillance?south=%g&west=%g&north=%g&east=%g",
		box.South, box.West, box.North, box.East), &cameras)
	return cameras, err
}

func (c *Client) Military(ctx context.Context, box BoundingBox) ([]MilitaryElement, error) {
	var payload struct {
		Elements []MilitaryElement `json:"elements"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/military?south=%g&west=%g&north=%g&east=%g",
		box.South, box.West, box.North, box.East), &payload)
	return payload.Elements, err
}

func (c *Client) GDACS(ctx context.Context) (FeatureCollection, error) {
	var fc FeatureCollection
	err := c.getJSON(ctx, "/api/gdacs", &fc)
	return fc, err
}

func (c *Client) Cables(ctx context.Context) (FeatureCollection, error) {
	var fc FeatureCollection
	err := c.getJSON(ctx, "/api/submarine-cables", &fc)
	return fc, err
}

// Health fetches the per-feed state map from the gateway.
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var states map[string]string
	err := c.getJSON(ctx, "/api/health", &states)
	return states, err
}

// AggregateHealth collapses a feed state map into one indicator for display:
// all green is green, any red is red, anything else is yellow.
func AggregateHealth(states map[string]string) string {
	if len(states) == 0 {
		return "yellow"
	}
	allGreen := true
	for _, s := range states {
		switch s {
		case "red":
			return "red"
		case "green":
		default:
			allGreen = false
		}
	}
	if allGreen {
		return "green"
	}
	return "yellow"
}
