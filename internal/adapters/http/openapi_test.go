package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	dir, _ := os.Getwd()

	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPISpec validates the OpenAPI specification is valid and lists
// every gateway endpoint.
func TestOpenAPISpec(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/api/health",
		"/api/ready",
		"/api/aviation",
		"/api/hazards",
		"/api/wikipedia",
		"/api/surveillance",
		"/api/military",
		"/api/gdacs",
		"/api/submarine-cables",
		"/api/reverse-geocode",
		"/api/auth/user",
		"/api/groups",
		"/api/groups/{id}",
		"/api/groups/{id}/features",
		"/api/features",
		"/api/features/{id}",
		"/api/graphql",
	}
	for _, p := range expectedPaths {
		if spec.Paths.Find(p) == nil {
			t.Errorf("missing path in spec: %s", p)
		}
	}
}

// TestOpenAPISpec_HealthIsFlatMap guards the /api/health contract: the body
// is the feed-to-state map itself, with no wrapper properties around it.
func TestOpenAPISpec_HealthIsFlatMap(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	item := spec.Paths.Find("/api/health")
	if item == nil || item.Get == nil {
		t.Fatal("missing GET /api/health")
	}
	resp := item.Get.Responses.Status(200)
	if resp == nil || resp.Value == nil {
		t.Fatal("missing 200 response for GET /api/health")
	}
	media := resp.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		t.Fatal("missing JSON schema for GET /api/health 200")
	}
	schema := media.Schema.Value
	if len(schema.Properties) != 0 {
		t.Errorf("health body must not declare named properties, got %d", len(schema.Properties))
	}
	if schema.AdditionalProperties.Schema == nil {
		t.Error("health body must map feed names via additionalProperties")
	}
}
