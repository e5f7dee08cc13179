package handler

// CompetitorMetrics is one rival's row in the comparison table.
type CompetitorMetrics struct {
	Domain         string `json:"domain"`
	AuthorityScore int    `json:"authorityScore"`
	OrganicTraffic int    `json:"organicTraffic"`
	Keywords       int    `json:"keywords"`
	Backlinks      int    `json:"backlinks"`
	OverlapPercent int    `json:"overlapPercent"`
	Trend          string `json:"trend"`
}

// CompetitorSource supplies competitor metrics for a site. The backend
// has no competitor endpoint yet, so the default source serves fixed
// sample data until a real provider is plugged in.
type CompetitorSource interface {
	Metrics(site string) []CompetitorMetrics
}

type staticCompetitorSource struct {
	rows []CompetitorMetrics
}

// StaticCompetitorSource returns a source with deterministic sample
// rows, the same for every site.
func StaticCompetitorSource() CompetitorSource {
	return &staticCompetitorSource{
		rows: []CompetitorMetrics{
			{Domain: "competitor-one.com", AuthorityScore: 72, OrganicTraffic: 145000, Keywords: 8400, Backlinks: 52000, OverlapPercent: 34, Trend: "up"},
			{Domain: "competitor-two.com", AuthorityScore: 65, OrganicTraffic: 98000, Keywords: 6100, Backlinks: 31000, OverlapPercent: 27, Trend: "stable"},
			{Domain: "competitor-three.com", AuthorityScore: 58, OrganicTraffic: 64000, Keywords: 4700, Backlinks: 18500, OverlapPercent: 19, Trend: "down"},
			{Domain: "competitor-four.com", AuthorityScore: 51, OrganicTraffic: 41000, Keywords: 3200, Backlinks: 9800, OverlapPercent: 12, Trend: "up"},
		},
	}
}

func (s *staticCompetitorSource) Metrics(site string) []CompetitorMetrics {
	out := make([]CompetitorMetrics, len(s.rows))
	copy(out, s.rows)
	return out
}
