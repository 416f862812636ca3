package routing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"tripweaver/internal/types"
)

type memUsageStore struct {
	counts map[string]int64
	err    error
}

func newMemUsageStore() *memUsageStore {
	return &memUsageStore{counts: map[string]int64{}}
}

func (m *memUsageStore) Increment(_ context.Context, month string, provider types.Provider) error {
	if m.err != nil {
		return m.err
	}
	m.counts[month+"/"+string(provider)]++
	return nil
}

func (m *memUsageStore) Get(_ context.Context, month string, provider types.Provider) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[month+"/"+string(provider)], nil
}

func quotaTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
}

func TestGate_AllowHosted(t *testing.T) {
	tests := []struct {
		name          string
		keyConfigured bool
		ceiling       int64
		count         int64
		storeErr      error
		want          bool
	}{
		{"no key configured", false, 1000, 0, nil, false},
		{"zero ceiling", true, 0, 0, nil, false},
		{"under ceiling", true, 1000, 999, nil, true},
		{"at ceiling", true, 1000, 1000, nil, false},
		{"over ceiling", true, 1000, 1500, nil, false},
		{"fresh month", true, 1000, 0, nil, true},
		{"store down", true, 1000, 0, errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemUsageStore()
			store.counts["2025-06/"+string(types.ProviderValhallaHosted)] = tt.count
			store.err = tt.storeErr

			gate := NewGate(quotaTestLogger(), store, tt.ceiling, tt.keyConfigured)
			gate.now = fixedNow

			if got := gate.AllowHosted(context.Background()); got != tt.want {
				t.Errorf("AllowHosted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGate_RecordUse(t *testing.T) {
	store := newMemUsageStore()
	gate := NewGate(quotaTestLogger(), store, 1000, true)
	gate.now = fixedNow

	gate.RecordUse(context.Background(), types.ProviderValhallaHosted)
	gate.RecordUse(context.Background(), types.ProviderValhallaHosted)

	if got := store.counts["2025-06/"+string(types.ProviderValhallaHosted)]; got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestGate_RecordUseSwallowsStoreErrors(t *testing.T) {
	store := newMemUsageStore()
	store.err = errors.New("connection reset")
	gate := NewGate(quotaTestLogger(), store, 1000, true)
	gate.now = fixedNow

	// Must not panic or propagate; quota accounting never fails a route.
	gate.RecordUse(context.Background(), types.ProviderValhallaHosted)
}

func TestGate_MonthRollover(t *testing.T) {
	store := newMemUsageStore()
	store.counts["2025-06/"+string(types.ProviderValhallaHosted)] = 5000

	gate := NewGate(quotaTestLogger(), store, 1000, true)
	gate.now = func() time.Time {
		return time.Date(2025, time.July, 1, 0, 0, 1, 0, time.UTC)
	}

	// June's exhausted counter is irrelevant in July.
	if !gate.AllowHosted(context.Background()) {
		t.Error("new month must reset effective quota")
	}
}
