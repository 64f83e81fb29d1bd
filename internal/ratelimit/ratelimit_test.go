package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(limit Limit) (*Limiter, *time.Time) {
	l := New(limit)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_WithinLimit(t *testing.T) {
	l, _ := newTestLimiter(Limit{MaxAttempts: 5, Window: time.Hour})

	for i := 0; i < 5; i++ {
		res := l.Allow("a@example.com")
		if !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
}

func TestAllow_SixthAttemptRejected(t *testing.T) {
	l, _ := newTestLimiter(Limit{MaxAttempts: 5, Window: time.Hour})

	for i := 0; i < 5; i++ {
		l.Allow("a@example.com")
	}
	res := l.Allow("a@example.com")
	if res.Allowed {
		t.Fatal("sixth attempt within the window should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want > 0", res.RetryAfter)
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Limit{MaxAttempts: 1, Window: time.Hour})

	if res := l.Allow("a@example.com"); !res.Allowed {
		t.Fatal("first key should be allowed")
	}
	if res := l.Allow("b@example.com"); !res.Allowed {
		t.Fatal("second key should not share the first key's count")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	l, now := newTestLimiter(Limit{MaxAttempts: 1, Window: time.Hour})

	l.Allow("a@example.com")
	if res := l.Allow("a@example.com"); res.Allowed {
		t.Fatal("second attempt within window should be rejected")
	}

	*now = now.Add(time.Hour + time.Second)
	if res := l.Allow("a@example.com"); !res.Allowed {
		t.Fatal("attempt after window reset should be allowed")
	}
}

func TestCleanup_DropsExpiredEntries(t *testing.T) {
	l, now := newTestLimiter(Limit{MaxAttempts: 5, Window: time.Hour})

	l.Allow("a@example.com")
	l.Allow("b@example.com")

	*now = now.Add(2 * time.Hour)
	l.Cleanup()

	if len(l.entries) != 0 {
		t.Fatalf("entries = %d, want 0 after cleanup", len(l.entries))
	}
}
