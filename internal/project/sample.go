package project

// Sample returns the Swift Crossing bridge project, a small but complete
// snapshot for demos and smoke runs. Each call returns a fresh copy.
func Sample() *Inputs {
	return &Inputs{
		Organization: "Rivertown Town Council",
		Goals: []Goal{
			{ID: "g1", Description: "Construct 'Swift Crossing' Bridge to reduce congestion on Old Bridge by 60%", Type: GoalPrimary, SuccessCriteria: "Operational by Q4 2026"},
			{ID: "g2", Description: "Revitalize High Street by removing heavy goods vehicle traffic", Type: GoalSecondary, SuccessCriteria: "25% increase in foot traffic on High St post-launch"},
		},
		Stakeholders: []Stakeholder{
			{ID: "s1", Name: "High St Shop Owners Guild", Role: "Local Business", Influence: LevelHigh, Interest: LevelHigh, BaseSupport: SupportNeutral},
			{ID: "s2", Name: "Rivertown Commuters Association", Role: "Public User Group", Influence: LevelHigh, Interest: LevelHigh, BaseSupport: SupportSupporter},
			{ID: "s3", Name: "Green River Alliance", Role: "Environmental NGO", Influence: LevelHigh, Interest: LevelHigh, BaseSupport: SupportDetractor},
			{ID: "s4", Name: "Mayor Sterling", Role: "Government Sponsor", Influence: LevelHigh, Interest: LevelHigh, BaseSupport: SupportSupporter},
		},
		Deliverables: []Deliverable{
			{ID: "d1", Name: "Traffic Flow Simulation Model", DueDate: "2025-12-15"},
			{ID: "d2", Name: "Geotechnical Soil & Hydrology Survey", DueDate: "2026-03-01", Dependencies: "d1"},
			{ID: "d3", Name: "Public Consultation Findings Report", DueDate: "2026-04-15", Dependencies: "d1"},
			{ID: "d4", Name: "Final Structural Design Pack", DueDate: "2026-07-30", Dependencies: "d2, d3"},
			{ID: "d5", Name: "Construction Tender Award", DueDate: "2026-09-15", Dependencies: "d4"},
		},
		KnownRisks: []KnownRisk{
			{ID: "r1", Description: "Steel price volatility causing budget overrun >15%", Likelihood: 0.7, Impact: 8, Category: "Financial"},
			{ID: "r2", Description: "Judicial Review launched by Green River Alliance delaying start", Likelihood: 0.6, Impact: 9, Category: "Reputational"},
			{ID: "r3", Description: "1-in-50 year flood event during cofferdam construction", Likelihood: 0.3, Impact: 8, Category: "Operational"},
		},
	}
}
