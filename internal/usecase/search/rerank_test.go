package search

import (
	"math"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
)

func TestRerank_Weights(t *testing.T) {
	hits := []hit.Hit{
		hit.New("k1", "Evacuation routes", "Use evacuation exit B. Evacuation drills monthly.", 0.5, nil, hit.KnowledgeBase),
	}

	out := rerank(hits, []string{"evacuation"})

	// 0.6*0.5 + 0.3*min(1, 0.1*2) + 0.1*0.1
	want := 0.3 + 0.06 + 0.01
	if math.Abs(out[0].Score()-want) > 1e-9 {
		t.Errorf("score = %v, want %v", out[0].Score(), want)
	}
}

func TestRerank_TitleBonusMargin(t *testing.T) {
	hits := []hit.Hit{
		hit.New("a", "Gate staffing", "Proceed calmly.", 0.8, nil, hit.KnowledgeBase),
		hit.New("b", "Evacuation routes", "Proceed calmly.", 0.8, nil, hit.KnowledgeBase),
	}

	out := rerank(hits, []string{"evacuation"})

	if out[0].KnowledgeID() != "b" {
		t.Fatalf("expected title match first, got %s", out[0].KnowledgeID())
	}
	if diff := out[0].Score() - out[1].Score(); math.Abs(diff-0.01) > 1e-9 {
		t.Errorf("margin = %v, want 0.01", diff)
	}
}

func TestRerank_NoTerms(t *testing.T) {
	hits := []hit.Hit{
		hit.New("a", "A", "x", 0.4, nil, hit.KnowledgeBase),
		hit.New("b", "B", "y", 0.9, nil, hit.KnowledgeBase),
	}

	out := rerank(hits, nil)

	if out[0].KnowledgeID() != "b" {
		t.Fatalf("expected semantic order to survive, got %s", out[0].KnowledgeID())
	}
	if math.Abs(out[0].Score()-0.54) > 1e-9 {
		t.Errorf("score = %v, want 0.54", out[0].Score())
	}
	if hits[0].Score() != 0.4 {
		t.Error("input hits must not be modified")
	}
}
