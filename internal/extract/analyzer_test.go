package extract

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/biokg/biokg/internal/llm"
	"github.com/biokg/biokg/internal/model"
)

type fakeProvider struct {
	calls    atomic.Int64
	failOn   string
	response string
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls.Add(1)
	if f.failOn != "" && strings.Contains(req.User, f.failOn) {
		return nil, fmt.Errorf("simulated quota error")
	}
	text := f.response
	if text == "" {
		text = "(" + req.User + ", outcome)"
	}
	return &llm.CompletionResponse{Text: text}, nil
}

func newTestAnalyzer(p llm.Provider, parallel bool) *Analyzer {
	return NewAnalyzer(p, model.ProcessingConfig{Workers: 4, Parallel: parallel}, 2000, false)
}

func TestAnalyzeAll_ResultsByIndex(t *testing.T) {
	provider := &fakeProvider{}
	analyzer := newTestAnalyzer(provider, true)

	articles := []model.Article{
		{Abstract: "abstract0"},
		{Abstract: "abstract1"},
		{Abstract: "abstract2"},
	}

	out := analyzer.AnalyzeAll(context.Background(), articles)

	for i, a := range out {
		expected := fmt.Sprintf("(abstract%d, outcome)", i)
		if a.Causal != expected {
			t.Errorf("Row %d: expected %q, got %q", i, expected, a.Causal)
		}
	}

	// Input untouched
	if articles[0].Causal != "" {
		t.Error("AnalyzeAll mutated its input")
	}
}

func TestAnalyzeAll_SkipsEmptyAbstracts(t *testing.T) {
	provider := &fakeProvider{}
	analyzer := newTestAnalyzer(provider, false)

	out := analyzer.AnalyzeAll(context.Background(), []model.Article{
		{Abstract: ""},
		{Abstract: "real abstract"},
	})

	if out[0].Causal != "" {
		t.Errorf("Expected empty result for empty abstract, got %q", out[0].Causal)
	}
	if provider.calls.Load() != 1 {
		t.Errorf("Expected 1 LLM call, got %d", provider.calls.Load())
	}
}

func TestAnalyzeAll_FailureDoesNotAbortBatch(t *testing.T) {
	provider := &fakeProvider{failOn: "abstract1"}
	analyzer := newTestAnalyzer(provider, true)

	out := analyzer.AnalyzeAll(context.Background(), []model.Article{
		{Abstract: "abstract0"},
		{Abstract: "abstract1"},
		{Abstract: "abstract2"},
	})

	if out[1].Causal != "" {
		t.Errorf("Expected empty result for failed row, got %q", out[1].Causal)
	}
	if out[0].Causal == "" || out[2].Causal == "" {
		t.Error("Expected sibling rows to complete despite one failure")
	}
}

func TestAnalyzeAll_SequentialMode(t *testing.T) {
	provider := &fakeProvider{response: "(a, b)"}
	analyzer := newTestAnalyzer(provider, false)

	out := analyzer.AnalyzeAll(context.Background(), []model.Article{
		{Abstract: "x"}, {Abstract: "y"},
	})

	if out[0].Causal != "(a, b)" || out[1].Causal != "(a, b)" {
		t.Errorf("Unexpected results: %+v", out)
	}
}

func TestStatistics(t *testing.T) {
	stats := Statistics([]model.Article{
		{Causal: "(a, b)"},
		{Causal: ""},
		{Causal: "(c, d)"},
		{Causal: ""},
	})

	if stats.Total != 4 || stats.Analyzed != 2 || stats.Empty != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("Expected 50%% success rate, got %f", stats.SuccessRate)
	}
}

func TestStatistics_Empty(t *testing.T) {
	stats := Statistics(nil)
	if stats.SuccessRate != 0 {
		t.Errorf("Expected zero success rate, got %f", stats.SuccessRate)
	}
}
