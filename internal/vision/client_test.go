package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"png prefix", "data:image/png;base64,AAAA", "AAAA"},
		{"jpeg prefix", "data:image/jpeg;base64,xyz", "xyz"},
		{"svg+xml prefix", "data:image/svg+xml;base64,abcd", "abcd"},
		{"no prefix", "AAAA", "AAAA"},
		{"prefix not at start", "xx data:image/png;base64,AAAA", "xx data:image/png;base64,AAAA"},
		{"missing comma", "data:image/png;base64AAAA", "data:image/png;base64AAAA"},
		{"non-image data uri", "data:text/plain;base64,AAAA", "data:text/plain;base64,AAAA"},
		{"prefix only", "data:image/png;base64,", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeImage(tt.in); got != tt.want {
				t.Fatalf("NormalizeImage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func conceptsResponse(concepts []wireConcept) []byte {
	if concepts == nil {
		concepts = []wireConcept{}
	}
	data, _ := json.Marshal(map[string]any{
		"outputs": []any{
			map[string]any{"data": map[string]any{"concepts": concepts}},
		},
	})
	return data
}

func TestDetect(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	var gotPath, gotAuth string
	var gotBody payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write(conceptsResponse([]wireConcept{
			{Name: "tomato", Value: 0.9},
			{Name: "bowl", Value: 0.5},
			{Name: "onion", Value: 0.76},
		}))
	}))
	defer srv.Close()

	c := NewClient("vision-key", log, WithBaseURL(srv.URL))

	d, err := c.Detect(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	// Data-URI prefix is stripped before transmission.
	if gotBody.Inputs[0].Data.Image.Base64 != "AAAA" {
		t.Errorf("transmitted payload = %q, want %q", gotBody.Inputs[0].Data.Image.Base64, "AAAA")
	}
	// Account and namespace resolve to the documented defaults.
	if gotPath != "/v2/users/clarifai/apps/main/models/food-item-recognition/outputs" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.UserAppID != (userAppID{UserID: "clarifai", AppID: "main"}) {
		t.Errorf("user_app_id = %+v", gotBody.UserAppID)
	}
	if gotAuth != "Key vision-key" {
		t.Errorf("auth header = %q", gotAuth)
	}

	// 0.75 boundary is exclusive: 0.76 is in, 0.5 is out.
	if len(d.Ingredients) != 2 || d.Ingredients[0] != "tomato" || d.Ingredients[1] != "onion" {
		t.Errorf("ingredients = %v", d.Ingredients)
	}
	if len(d.Concepts) != 3 {
		t.Fatalf("expected 3 concepts, got %d", len(d.Concepts))
	}
	if d.Concepts[1] != (domain.Concept{Name: "bowl", Score: 0.5}) {
		t.Errorf("concepts[1] = %+v", d.Concepts[1])
	}
}

func TestDetectBoundaryScoreExcluded(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(conceptsResponse([]wireConcept{{Name: "plate", Value: 0.75}}))
	}))
	defer srv.Close()

	c := NewClient("vision-key", log, WithBaseURL(srv.URL))

	d, err := c.Detect(context.Background(), "AAAA")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(d.Ingredients) != 0 {
		t.Fatalf("score exactly at threshold must be excluded, got %v", d.Ingredients)
	}
	if len(d.Concepts) != 1 {
		t.Fatalf("full concept list must be unfiltered, got %d", len(d.Concepts))
	}
}

func TestDetectUsesConfiguredUserApp(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(conceptsResponse(nil))
	}))
	defer srv.Close()

	c := NewClient("vision-key", log, WithBaseURL(srv.URL), WithUserApp("acme", "kitchen"))

	if _, err := c.Detect(context.Background(), "AAAA"); err != nil {
		t.Fatalf("detect: %v", err)
	}
	if gotPath != "/v2/users/acme/apps/kitchen/models/food-item-recognition/outputs" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestDetectRemoteError(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":{"description":"Invalid API key or token","details":"key not found"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad-key", log, WithBaseURL(srv.URL))

	_, err := c.Detect(context.Background(), "AAAA")
	if !errors.Is(err, domain.ErrIngredientDetection) {
		t.Fatalf("expected ErrIngredientDetection, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key or token") {
		t.Fatalf("error lost the remote message: %v", err)
	}
}

func TestDetectEmptyOutputs(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outputs":[]}`))
	}))
	defer srv.Close()

	c := NewClient("vision-key", log, WithBaseURL(srv.URL))

	_, err := c.Detect(context.Background(), "AAAA")
	if !errors.Is(err, domain.ErrIngredientDetection) {
		t.Fatalf("expected ErrIngredientDetection, got %v", err)
	}
}
