package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")
	tests := []struct {
		name       string
		engine     error
		cache      Pinger
		wantStatus Status
		wantEngine CheckResult
		wantCache  CheckResult
	}{
		{"all healthy", nil, &mockPinger{}, Healthy, CheckOK, CheckOK},
		{"cache down", nil, &mockPinger{err: down}, Degraded, CheckOK, CheckError},
		{"engine down", down, &mockPinger{}, Unhealthy, CheckError, CheckOK},
		{"both down", down, &mockPinger{err: down}, Unhealthy, CheckError, CheckError},
		{"no cache", nil, nil, Healthy, CheckOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&mockPinger{err: tt.engine}, tt.cache).Check(context.Background())
			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks[ComponentEngine] != tt.wantEngine {
				t.Errorf("engine = %q, want %q", r.Checks[ComponentEngine], tt.wantEngine)
			}
			if r.Checks[ComponentCache] != tt.wantCache {
				t.Errorf("cache = %q, want %q", r.Checks[ComponentCache], tt.wantCache)
			}
		})
	}
}

func TestCheck_NoCacheOmitsComponent(t *testing.T) {
	r := New(&mockPinger{}, nil).Check(context.Background())
	if _, ok := r.Checks[ComponentCache]; ok {
		t.Error("cache check must be omitted when the cache is disabled")
	}
}
