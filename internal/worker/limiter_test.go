package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 2)

	url := "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	if !limiter.Allow(url) {
		t.Error("Expected first request to be allowed")
	}
	if !limiter.Allow(url) {
		t.Error("Expected second request within burst to be allowed")
	}
	if limiter.Allow(url) {
		t.Error("Expected third request to exceed burst")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://eutils.ncbi.nlm.nih.gov/a") {
		t.Error("Expected first host to be allowed")
	}
	if !limiter.Allow("https://api.openai.com/b") {
		t.Error("Expected a different host to have its own limiter")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetHostRate("eutils.ncbi.nlm.nih.gov", 10, 10)

	url := "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	for i := 0; i < 5; i++ {
		if !limiter.Allow(url) {
			t.Fatalf("Expected request %d to be admitted under raised rate", i+1)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	url := "https://eutils.ncbi.nlm.nih.gov/x"
	_ = limiter.Allow(url) // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("Expected Wait to fail once the context expires")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if limiter.Allow("://bad url") {
		t.Error("Expected invalid URL to be rejected")
	}
}
