package policy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	msgNoMatch  = "No matching policy found"
	msgNotFound = "Policy not found"
)

// Query selects policies by exact number or by policyholder details. Empty
// fields are ignored.
type Query struct {
	PolicyNumber      string `json:"policy_number,omitempty"`
	PolicyholderName  string `json:"policyholder_name,omitempty"`
	PolicyholderEmail string `json:"policyholder_email,omitempty"`
}

// LookupResult carries a single policy for an exact number match, a list for
// a policyholder search, or an error message when nothing matched.
type LookupResult struct {
	Found    bool     `json:"found"`
	Policy   *Policy  `json:"policy,omitempty"`
	Policies []Policy `json:"policies,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Coverage is the derived view of a policy returned by CoverageSummary.
type Coverage struct {
	PolicyNumber      string             `json:"policy_number"`
	PolicyType        string             `json:"policy_type"`
	Status            string             `json:"status"`
	TotalCoverage     float64            `json:"total_coverage"`
	Premium           float64            `json:"premium"`
	DaysRemaining     Optional[int]      `json:"days_remaining"`
	CoverageBreakdown map[string]float64 `json:"coverage_breakdown"`
	Deductible        Optional[float64]  `json:"deductible"`
}

// Summary wraps Coverage with the found flag. Coverage is nil when the policy
// does not exist.
type Summary struct {
	Found bool   `json:"found"`
	Error string `json:"error,omitempty"`
	*Coverage
}

// Service answers lookups against a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for days remaining.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Lookup resolves q. An exact policy number wins; otherwise every policy whose
// holder name contains the name (case-insensitive) or whose holder email
// equals the email (case-insensitive) is returned.
func (s *Service) Lookup(ctx context.Context, q Query) (LookupResult, error) {
	number := strings.TrimSpace(q.PolicyNumber)
	if number != "" {
		p, err := s.store.Get(ctx, number)
		switch {
		case err == nil:
			return LookupResult{Found: true, Policy: &p}, nil
		case !errors.Is(err, ErrNotFound):
			return LookupResult{}, fmt.Errorf("get policy %s: %w", number, err)
		}
	}

	name := strings.ToLower(q.PolicyholderName)
	email := strings.ToLower(strings.TrimSpace(q.PolicyholderEmail))
	if name != "" || email != "" {
		all, err := s.store.List(ctx)
		if err != nil {
			return LookupResult{}, fmt.Errorf("list policies: %w", err)
		}
		var matches []Policy
		for _, p := range all {
			nameMatch := name != "" && strings.Contains(strings.ToLower(p.Policyholder.Name), name)
			emailMatch := email != "" && email == strings.ToLower(p.Policyholder.Email)
			if nameMatch || emailMatch {
				matches = append(matches, p)
			}
		}
		if len(matches) > 0 {
			return LookupResult{Found: true, Policies: matches}, nil
		}
	}

	return LookupResult{Found: false, Error: msgNoMatch}, nil
}

// CoverageSummary returns the coverage view of the policy with the given
// number. Days remaining is computed from the end date and reported as
// unknown when the date cannot be parsed.
func (s *Service) CoverageSummary(ctx context.Context, number string) (Summary, error) {
	p, err := s.store.Get(ctx, strings.TrimSpace(number))
	if errors.Is(err, ErrNotFound) {
		return Summary{Found: false, Error: msgNotFound}, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("get policy %s: %w", number, err)
	}

	cov := &Coverage{
		PolicyNumber:      p.PolicyNumber,
		PolicyType:        p.PolicyType,
		Status:            p.Status,
		TotalCoverage:     p.CoverageAmount,
		Premium:           p.PremiumAmount,
		DaysRemaining:     DaysRemaining(p.EndDate, s.now()),
		CoverageBreakdown: p.CoverageDetails,
	}
	if cov.CoverageBreakdown == nil {
		cov.CoverageBreakdown = map[string]float64{}
	}
	if d, ok := p.CoverageDetails["deductible"]; ok {
		cov.Deductible = Known(d)
	}
	return Summary{Found: true, Coverage: cov}, nil
}

// DaysRemaining returns the whole days from now until end, rounded down, so a
// policy that ended yesterday reports -1. end must use DateLayout.
func DaysRemaining(end string, now time.Time) Optional[int] {
	t, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return Optional[int]{}
	}
	d := t.Sub(now.UTC())
	return Known(int(math.Floor(d.Hours() / 24)))
}
