package security

import (
	"strings"

	"github.com/agentic-insurtech/insurtech/internal/policy"
)

// DataMasker hides policyholder contact details in API responses
type DataMasker struct {
	fields map[string]bool
}

// NewDataMasker masks the named policyholder fields ("email", "phone",
// "address").
func NewDataMasker(sensitiveFields []string) *DataMasker {
	fields := make(map[string]bool, len(sensitiveFields))
	for _, f := range sensitiveFields {
		fields[strings.ToLower(strings.TrimSpace(f))] = true
	}
	return &DataMasker{fields: fields}
}

// MaskPolicy returns a copy of p with sensitive holder fields masked.
func (m *DataMasker) MaskPolicy(p policy.Policy) policy.Policy {
	if m == nil {
		return p
	}
	p = p.Clone()
	h := &p.Policyholder
	if m.fields["email"] {
		h.Email = maskEmail(h.Email)
	}
	if m.fields["phone"] {
		h.Phone = maskPhone(h.Phone)
	}
	if m.fields["address"] && h.Address != "" {
		h.Address = "***"
	}
	return p
}

// MaskPolicies masks every policy in ps.
func (m *DataMasker) MaskPolicies(ps []policy.Policy) []policy.Policy {
	if m == nil || ps == nil {
		return ps
	}
	out := make([]policy.Policy, len(ps))
	for i, p := range ps {
		out[i] = m.MaskPolicy(p)
	}
	return out
}

// maskEmail: "john.smith@example.com" → "jo***@***.com"
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	visible := min(2, len(local))
	ext := domain[strings.LastIndex(domain, ".")+1:]
	return local[:visible] + "***@***." + ext
}

// maskPhone: "555-123-4567" → "***-***-4567"
func maskPhone(phone string) string {
	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	d := digits.String()
	if len(d) < 4 {
		return "***-***-****"
	}
	return "***-***-" + d[len(d)-4:]
}
