package llm

import (
	"strings"
	"testing"
)

func TestDecodeLoose_ValidJSON(t *testing.T) {
	var out map[string]string
	err := DecodeLoose(`{"name": "Gold mining"}`, &out)
	if err != nil {
		t.Fatalf("Expected valid JSON to decode, got error: %v", err)
	}
	if out["name"] != "Gold mining" {
		t.Errorf("Expected 'Gold mining', got '%s'", out["name"])
	}
}

func TestDecodeLoose_FencedJSON(t *testing.T) {
	var out []int
	err := DecodeLoose("```json\n[1, 2, 3]\n```", &out)
	if err != nil {
		t.Fatalf("Expected fenced JSON to decode, got error: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("Expected 3 elements, got %d", len(out))
	}
}

func TestDecodeLoose_SingleQuoteRepair(t *testing.T) {
	var out map[string]string
	err := DecodeLoose(`{'title': 'Esmeraldas de Colombia'}`, &out)
	if err != nil {
		t.Fatalf("Expected single-quoted payload to be repaired, got error: %v", err)
	}
	if out["title"] != "Esmeraldas de Colombia" {
		t.Errorf("Expected repaired value, got '%s'", out["title"])
	}
}

func TestDecodeLoose_InvalidJSON(t *testing.T) {
	var out map[string]string
	err := DecodeLoose("this is not json at all", &out)
	if err == nil {
		t.Fatal("Expected error for unparseable payload")
	}
	if !strings.Contains(err.Error(), "valid JSON") {
		t.Errorf("Expected error to mention invalid JSON, got: %v", err)
	}
}

func TestDecodeLoose_PreviewTruncated(t *testing.T) {
	long := strings.Repeat("x", 1000)
	var out map[string]string
	err := DecodeLoose(long, &out)
	if err == nil {
		t.Fatal("Expected error for unparseable payload")
	}
	if len(err.Error()) > 400 {
		t.Errorf("Expected error preview to be truncated, got %d chars", len(err.Error()))
	}
}
