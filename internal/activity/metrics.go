package activity

import (
	"sort"

	"github.com/agentic-insurtech/insurtech/internal/config"
)

const recentActivities = 5

// AgentMetrics summarizes one agent's recorded activity.
type AgentMetrics struct {
	Agent             string  `json:"agent"`
	SuccessRate       float64 `json:"success_rate"` // percent
	TotalTasks        int     `json:"total_tasks"`
	AvgTime           float64 `json:"avg_time"` // seconds
	TargetSuccessRate float64 `json:"target_success_rate"`
	TargetTime        float64 `json:"target_time"`
	MeetsTargets      bool    `json:"meets_targets"`
	RecentActivities  []Entry `json:"recent_activities"`
}

// Report is the performance view across all agents.
type Report struct {
	Agents       map[AgentType]AgentMetrics `json:"agents"`
	SystemHealth map[string]string          `json:"system_health"`
}

// Metrics computes the metrics for one agent. An agent with no entries
// reports zeroes and no recent activity.
func Metrics(entries []Entry, agent AgentType, target config.Target) AgentMetrics {
	m := AgentMetrics{
		Agent:             agent.DisplayName(),
		TargetSuccessRate: target.SuccessRate,
		TargetTime:        target.TimeSeconds,
		RecentActivities:  []Entry{},
	}

	var mine []Entry
	for _, e := range entries {
		if e.AgentType == agent {
			mine = append(mine, e)
		}
	}
	if len(mine) == 0 {
		return m
	}

	var ok int
	var total float64
	for _, e := range mine {
		if e.Success {
			ok++
		}
		total += e.ExecutionTime
	}
	m.TotalTasks = len(mine)
	m.SuccessRate = float64(ok) / float64(len(mine)) * 100
	m.AvgTime = total / float64(len(mine))
	m.MeetsTargets = m.SuccessRate >= target.SuccessRate && m.AvgTime <= target.TimeSeconds

	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if len(mine) > recentActivities {
		mine = mine[:recentActivities]
	}
	m.RecentActivities = mine
	return m
}

// Performance builds the report for every known agent.
func Performance(entries []Entry, targets map[string]config.Target) Report {
	r := Report{
		Agents:       make(map[AgentType]AgentMetrics, len(AgentTypes)),
		SystemHealth: systemHealth(entries),
	}
	for _, a := range AgentTypes {
		r.Agents[a] = Metrics(entries, a, targets[string(a)])
	}
	return r
}

// systemHealth grades the error rate of the retained entries.
func systemHealth(entries []Entry) map[string]string {
	rate := "Low"
	if len(entries) > 0 {
		var failed int
		for _, e := range entries {
			if !e.Success {
				failed++
			}
		}
		switch pct := float64(failed) / float64(len(entries)) * 100; {
		case pct > 25:
			rate = "High"
		case pct > 10:
			rate = "Moderate"
		}
	}
	return map[string]string{
		"agent_coordination": "Optimal",
		"error_rate":         rate,
	}
}
