package models

import "sort"

// ChatterStats is one chatter's performance over a reporting window, either
// as fetched for a single account or merged across accounts by name.
type ChatterStats struct {
	Name              string
	TotalSales        float64
	AvgResponseSecs   float64
	PPVConversionRate float64
	TotalMessages     int
	TemplateMessages  int
	ManualMessages    int
}

// MergeChatters combines per-account records by exact chatter name. Sales
// and message counts are summed; response time and conversion rate are the
// simple mean of the contributing records, not weighted by message volume.
// The result is sorted by total sales descending, ties keeping the order the
// names were first seen in.
func MergeChatters(stats []*ChatterStats) []*ChatterStats {
	type bucket struct {
		merged  *ChatterStats
		sources int
	}

	byName := make(map[string]*bucket)
	var order []string

	for _, s := range stats {
		b, ok := byName[s.Name]
		if !ok {
			b = &bucket{merged: &ChatterStats{Name: s.Name}}
			byName[s.Name] = b
			order = append(order, s.Name)
		}
		b.merged.TotalSales += s.TotalSales
		b.merged.TotalMessages += s.TotalMessages
		b.merged.TemplateMessages += s.TemplateMessages
		b.merged.ManualMessages += s.ManualMessages
		b.merged.AvgResponseSecs += s.AvgResponseSecs
		b.merged.PPVConversionRate += s.PPVConversionRate
		b.sources++
	}

	result := make([]*ChatterStats, 0, len(order))
	for _, name := range order {
		b := byName[name]
		b.merged.AvgResponseSecs /= float64(b.sources)
		b.merged.PPVConversionRate /= float64(b.sources)
		result = append(result, b.merged)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSales > result[j].TotalSales
	})
	return result
}
