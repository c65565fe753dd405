package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"cert-lookup/lookup/domain"
	"cert-lookup/lookup/infra"
)

func TestRateLimitService_AllowsWhenNoStore(t *testing.T) {
	var svc *RateLimitService
	if dec := svc.Decide(context.Background(), "c1"); !dec.Allowed {
		t.Fatalf("nil service should allow")
	}

	svc = &RateLimitService{}
	if dec := svc.Decide(context.Background(), "c1"); !dec.Allowed {
		t.Fatalf("service without store should allow")
	}
}

func TestRateLimitService_DeniesEleventhCallInSameMinute(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 10, 0, time.UTC)
	svc := &RateLimitService{
		Store: infra.NewMemoryCounter(),
		Limit: 10,
		Now:   func() time.Time { return now },
	}

	for i := 1; i <= 10; i++ {
		dec := svc.Decide(context.Background(), "c1")
		if !dec.Allowed {
			t.Fatalf("call %d should be allowed", i)
		}
	}

	dec := svc.Decide(context.Background(), "c1")
	if dec.Allowed {
		t.Fatalf("11th call in the same minute should be denied")
	}
	if dec.RetryAfter != 60*time.Second {
		t.Fatalf("expected RetryAfter=60s, got %s", dec.RetryAfter)
	}

	// primeira chamada da janela seguinte volta a passar
	now = now.Add(time.Minute)
	if dec := svc.Decide(context.Background(), "c1"); !dec.Allowed {
		t.Fatalf("first call of the next minute should be allowed")
	}
}

func TestRateLimitService_KeysAreIndependentPerClient(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 10, 0, time.UTC)
	svc := &RateLimitService{
		Store: infra.NewMemoryCounter(),
		Limit: 1,
		Now:   func() time.Time { return now },
	}

	if dec := svc.Decide(context.Background(), "c1"); !dec.Allowed {
		t.Fatalf("c1 first call should pass")
	}
	if dec := svc.Decide(context.Background(), "c1"); dec.Allowed {
		t.Fatalf("c1 second call should be denied")
	}
	if dec := svc.Decide(context.Background(), "c2"); !dec.Allowed {
		t.Fatalf("c2 has its own window and should pass")
	}
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func TestRateLimitService_FailsOpenOnStoreError(t *testing.T) {
	svc := &RateLimitService{Store: failingCounter{}, Limit: 1}

	for i := 0; i < 5; i++ {
		if dec := svc.Decide(context.Background(), "c1"); !dec.Allowed {
			t.Fatalf("store error must fail open, call %d denied", i)
		}
	}
}

var _ domain.CounterStore = failingCounter{}
