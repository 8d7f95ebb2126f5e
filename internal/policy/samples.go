package policy

// SamplePolicies returns fresh copies of the demo policies.
func SamplePolicies() []Policy {
	return []Policy{
		{
			PolicyNumber:   "POL-20250101-1234",
			PolicyType:     "Home Insurance",
			CoverageAmount: 250000.00,
			PremiumAmount:  1200.00,
			StartDate:      "2025-01-01",
			EndDate:        "2026-01-01",
			Status:         "Active",
			Policyholder: Policyholder{
				Name:    "John Smith",
				Email:   "john.smith@example.com",
				Phone:   "555-123-4567",
				Address: "123 Main St, Anytown, USA",
			},
			CoverageDetails: map[string]float64{
				"dwelling":          200000.00,
				"personal_property": 100000.00,
				"liability":         300000.00,
				"deductible":        1000.00,
			},
		},
		{
			PolicyNumber:   "POL-20250215-5678",
			PolicyType:     "Auto Insurance",
			CoverageAmount: 50000.00,
			PremiumAmount:  800.00,
			StartDate:      "2025-02-15",
			EndDate:        "2026-02-15",
			Status:         "Active",
			Policyholder: Policyholder{
				Name:    "Jane Doe",
				Email:   "jane.doe@example.com",
				Phone:   "555-987-6543",
				Address: "456 Oak Ave, Somewhere, USA",
			},
			CoverageDetails: map[string]float64{
				"liability":     100000.00,
				"collision":     25000.00,
				"comprehensive": 25000.00,
				"deductible":    500.00,
			},
		},
		{
			PolicyNumber:   "POL-20250320-9012",
			PolicyType:     "Renters Insurance",
			CoverageAmount: 30000.00,
			PremiumAmount:  300.00,
			StartDate:      "2025-03-20",
			EndDate:        "2026-03-20",
			Status:         "Active",
			Policyholder: Policyholder{
				Name:    "Bob Johnson",
				Email:   "bob.johnson@example.com",
				Phone:   "555-456-7890",
				Address: "789 Pine St, Nowhere, USA",
			},
			CoverageDetails: map[string]float64{
				"personal_property": 30000.00,
				"liability":         100000.00,
				"loss_of_use":       10000.00,
				"deductible":        500.00,
			},
		},
	}
}
