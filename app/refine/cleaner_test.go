package refine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gemfeed/gempress/app/llm"
)

type segmentChatter struct {
	failOn string
	calls  int
}

func (c *segmentChatter) Chat(ctx context.Context, system, user string) (string, error) {
	c.calls++
	if c.failOn != "" && strings.Contains(user, c.failOn) {
		return "", errors.New("model overloaded")
	}
	return "cleaned segment", nil
}

func TestCleaner_Run_AllSegmentsSucceed(t *testing.T) {
	chatter := &segmentChatter{}
	cleaner := NewCleaner(llm.NewInvoker(chatter, 1, 0), 5)

	// 12 runes at segment size 5 yields 3 segments
	result, err := cleaner.Run(context.Background(), "aaaaabbbbbcc", "https://example.com/a")
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if chatter.calls != 3 {
		t.Errorf("Expected 3 model calls, got %d", chatter.calls)
	}

	expected := "cleaned segment\n\ncleaned segment\n\ncleaned segment"
	if result != expected {
		t.Errorf("Expected joined segments, got %q", result)
	}
}

func TestCleaner_Run_FailedSegmentSkipped(t *testing.T) {
	chatter := &segmentChatter{failOn: "bbbbb"}
	cleaner := NewCleaner(llm.NewInvoker(chatter, 1, 0), 5)

	result, err := cleaner.Run(context.Background(), "aaaaabbbbbccccc", "https://example.com/a")
	if err != nil {
		t.Fatalf("A failed segment should not abort the document, got error: %v", err)
	}

	// Middle segment dropped, remaining two joined
	expected := "cleaned segment\n\ncleaned segment"
	if result != expected {
		t.Errorf("Expected 2 surviving segments, got %q", result)
	}
}

func TestCleaner_Run_EmptyInput(t *testing.T) {
	cleaner := NewCleaner(llm.NewInvoker(&segmentChatter{}, 1, 0), 5)

	_, err := cleaner.Run(context.Background(), "   \n  ", "https://example.com/a")
	if err == nil {
		t.Fatal("Expected error for empty input")
	}
}

func TestSplitSegments(t *testing.T) {
	segments := splitSegments("abcdefgh", 3)
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	if segments[0] != "abc" || segments[1] != "def" || segments[2] != "gh" {
		t.Errorf("Unexpected segments: %v", segments)
	}
}

func TestSplitSegments_RuneSafe(t *testing.T) {
	// Multi-byte runes must not be split mid-character
	segments := splitSegments("ááééíí", 2)
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	for i, s := range segments {
		if !strings.ContainsAny(s, "áéí") {
			t.Errorf("Segment %d corrupted: %q", i, s)
		}
	}
}

func TestSplitSegments_Empty(t *testing.T) {
	if segments := splitSegments("  ", 10); segments != nil {
		t.Errorf("Expected nil for whitespace-only input, got %v", segments)
	}
}
