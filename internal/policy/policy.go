// Package policy provides read-only lookup of insurance policies and the
// coverage summaries derived from them.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DateLayout is the format of policy start and end dates.
const DateLayout = "2006-01-02"

// ErrNotFound is returned by a Store when no policy has the requested number.
var ErrNotFound = errors.New("policy not found")

// Policyholder is the customer owning a policy.
type Policyholder struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Policy is a single insurance policy record. Dates are kept as they were
// stored so that a malformed value can be reported instead of rejected.
type Policy struct {
	PolicyNumber    string             `json:"policy_number"`
	PolicyType      string             `json:"policy_type"`
	CoverageAmount  float64            `json:"coverage_amount"`
	PremiumAmount   float64            `json:"premium_amount"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Status          string             `json:"status"`
	Policyholder    Policyholder       `json:"policyholder"`
	CoverageDetails map[string]float64 `json:"coverage_details"`
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (p Policy) Clone() Policy {
	if p.CoverageDetails != nil {
		details := make(map[string]float64, len(p.CoverageDetails))
		for k, v := range p.CoverageDetails {
			details[k] = v
		}
		p.CoverageDetails = details
	}
	return p
}

// Store is a read-only source of policies.
type Store interface {
	// Get returns the policy with the exact number or ErrNotFound.
	Get(ctx context.Context, number string) (Policy, error)
	// List returns every policy ordered by policy number.
	List(ctx context.Context) ([]Policy, error)
}

// Optional is a value that may be unknown. Unknown values encode as the
// JSON string "Unknown".
type Optional[T int | float64] struct {
	Value T
	Known bool
}

// Known wraps a known value.
func Known[T int | float64](v T) Optional[T] {
	return Optional[T]{Value: v, Known: true}
}

const unknownLiteral = `"Unknown"`

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Known {
		return []byte(unknownLiteral), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == unknownLiteral || string(b) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode optional value: %w", err)
	}
	*o = Known(v)
	return nil
}

func (o Optional[T]) String() string {
	if !o.Known {
		return "Unknown"
	}
	return fmt.Sprint(o.Value)
}
