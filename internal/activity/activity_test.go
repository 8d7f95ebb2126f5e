package activity_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/config"
)

func entry(id string, agent activity.AgentType, ok bool, secs float64, at time.Time) activity.Entry {
	return activity.Entry{ID: id, AgentType: agent, Action: "tool", Success: ok, ExecutionTime: secs, CreatedAt: at}
}

func TestMemoryLogRing(t *testing.T) {
	ctx := context.Background()
	log := activity.NewMemoryLog(3)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b"} {
		_ = log.Record(ctx, entry(id, activity.AgentClaims, true, 1, base.Add(time.Duration(i)*time.Minute)))
	}
	if got := log.Entries(); len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("before wrap: %+v", got)
	}

	for i, id := range []string{"c", "d", "e"} {
		_ = log.Record(ctx, entry(id, activity.AgentClaims, true, 1, base.Add(time.Duration(i+2)*time.Minute)))
	}
	got := log.Entries()
	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	if strings.Join(ids, ",") != "c,d,e" {
		t.Errorf("after wrap got %v, want c,d,e", ids)
	}
}

func TestMetrics(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var entries []activity.Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, entry(string(rune('a'+i)), activity.AgentUnderwriting, i%4 != 0, 2, base.Add(time.Duration(i)*time.Minute)))
	}
	entries = append(entries, entry("x", activity.AgentClaims, false, 9, base))

	m := activity.Metrics(entries, activity.AgentUnderwriting, config.Target{SuccessRate: 75, TimeSeconds: 2.1})
	if m.Agent != "Underwriting Analyzer" {
		t.Errorf("agent = %q", m.Agent)
	}
	if m.TotalTasks != 8 {
		t.Errorf("total = %d, want 8", m.TotalTasks)
	}
	if m.SuccessRate != 75 {
		t.Errorf("success rate = %v, want 75", m.SuccessRate)
	}
	if m.AvgTime != 2 {
		t.Errorf("avg time = %v, want 2", m.AvgTime)
	}
	if !m.MeetsTargets {
		t.Error("expected targets met")
	}
	if len(m.RecentActivities) != 5 || m.RecentActivities[0].ID != "h" {
		t.Errorf("recent = %+v", m.RecentActivities)
	}
}

func TestMetricsNoActivity(t *testing.T) {
	m := activity.Metrics(nil, activity.AgentCustomer, config.Target{SuccessRate: 60, TimeSeconds: 3.2})
	if m.TotalTasks != 0 || m.MeetsTargets || m.RecentActivities == nil {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestPerformanceSystemHealth(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		failed int
		want   string
	}{
		{"none", 0, "Low"},
		{"moderate", 2, "Moderate"},
		{"high", 3, "High"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []activity.Entry
			for i := 0; i < 10; i++ {
				entries = append(entries, entry("", activity.AgentClaims, i >= tt.failed, 1, now))
			}
			r := activity.Performance(entries, config.DefaultTargets)
			if got := r.SystemHealth["error_rate"]; got != tt.want {
				t.Errorf("error_rate = %q, want %q", got, tt.want)
			}
			if len(r.Agents) != 3 {
				t.Errorf("agents = %d, want 3", len(r.Agents))
			}
		})
	}
}

type fakeRecorder struct {
	mu     sync.Mutex
	got    []activity.Entry
	err    error
	closed bool
}

func (f *fakeRecorder) Record(_ context.Context, e activity.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, e)
	return f.err
}

func (f *fakeRecorder) Close() error {
	f.closed = true
	return nil
}

func TestFanout(t *testing.T) {
	good := &fakeRecorder{}
	bad := &fakeRecorder{err: errors.New("unavailable")}
	mem := activity.NewMemoryLog(10)

	f := activity.NewFanout()
	f.Add("memory", mem)
	f.Add("good", good)
	f.Add("bad", bad)

	err := f.Record(context.Background(), entry("1", activity.AgentClaims, true, 1, time.Now()))
	if err == nil || !strings.Contains(err.Error(), "bad: unavailable") {
		t.Fatalf("err = %v", err)
	}
	if len(good.got) != 1 || len(bad.got) != 1 || len(mem.Entries()) != 1 {
		t.Error("every recorder should receive the entry")
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if !good.closed || !bad.closed {
		t.Error("closers not closed")
	}
	if got := strings.Join(f.Sinks(), ","); got != "memory,good,bad" {
		t.Errorf("sinks = %s", got)
	}
}

func TestAgentType(t *testing.T) {
	if !activity.AgentClaims.Valid() || activity.AgentType("sales").Valid() {
		t.Error("Valid mismatch")
	}
	if activity.AgentCustomer.DisplayName() != "Customer Assistant" {
		t.Error("display name mismatch")
	}
}
