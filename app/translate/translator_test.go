package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPTranslator_InvalidLanguage(t *testing.T) {
	_, err := NewHTTPTranslator("http://localhost:5000", "not-a-language-tag!", http.DefaultClient)
	if err == nil {
		t.Fatal("Expected error for invalid language tag")
	}
}

func TestHTTPTranslator_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req["target"] != "es" {
			t.Errorf("Expected target 'es', got '%s'", req["target"])
		}
		if req["source"] != "auto" {
			t.Errorf("Expected source 'auto', got '%s'", req["source"])
		}

		json.NewEncoder(w).Encode(map[string]string{"translatedText": "hola mundo"})
	}))
	defer server.Close()

	translator, err := NewHTTPTranslator(server.URL, "es", server.Client())
	if err != nil {
		t.Fatalf("Failed to build translator: %v", err)
	}

	result, err := translator.Translate(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if result != "hola mundo" {
		t.Errorf("Expected 'hola mundo', got '%s'", result)
	}
}

func TestHTTPTranslator_Translate_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	translator, err := NewHTTPTranslator(server.URL, "es", server.Client())
	if err != nil {
		t.Fatalf("Failed to build translator: %v", err)
	}

	if _, err := translator.Translate(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error for failing service")
	}
}

func TestHTTPTranslator_Translate_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "  "})
	}))
	defer server.Close()

	translator, err := NewHTTPTranslator(server.URL, "es", server.Client())
	if err != nil {
		t.Fatalf("Failed to build translator: %v", err)
	}

	if _, err := translator.Translate(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error for empty translation")
	}
}
