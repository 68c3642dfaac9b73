package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAnalyzeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/analyze" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"food_name":"番茄炒蛋","calories":320,"protein_g":18,"carbs_g":12,"fat_g":22,"tags":["家常菜"],"advice":"蛋白质不错","next_step":"配点主食"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	got, err := c.Analyze(context.Background(), "https://img.example/1.jpg", "识别这餐")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.FoodName != "番茄炒蛋" || got.Calories != 320 {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "家常菜" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Analyze(context.Background(), "img", ""); !errors.Is(err, ErrUpstream) {
		t.Errorf("got %v, want ErrUpstream", err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.HTTPClient = &http.Client{Timeout: 20 * time.Millisecond}
	if _, err := c.Analyze(context.Background(), "img", ""); !errors.Is(err, ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}

func TestAnalyzeMissingBaseURL(t *testing.T) {
	c := NewClient("", "")
	if _, err := c.Analyze(context.Background(), "img", ""); !errors.Is(err, ErrUpstream) {
		t.Errorf("got %v, want ErrUpstream", err)
	}
}
