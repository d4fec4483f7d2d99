// Package suggest groups unfulfilled orders into geographic clusters
// and ranks them as candidate locations for new stores.
package suggest

import (
	"fmt"
	"sort"

	"store_vision/internal/geo"
)

const (
	// DefaultRadiusKm is the neighbor-inclusion radius used when the
	// caller does not supply one.
	DefaultRadiusKm = 3

	// MaxSuggestions caps how many clusters are reported.
	MaxSuggestions = 5
)

// OrderPoint is the slice of an order the clusterer needs.
type OrderPoint struct {
	ID       uint
	Position geo.Coordinate
}

// Suggestion is one ranked cluster: its centroid, the share of the
// city's unfulfilled orders it covers, and the raw count.
type Suggestion struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Percentage string  `json:"percentage"`
	Covers     int     `json:"covers"`
}

// Result carries the ranked suggestions. NoUnfulfilledOrders marks the
// empty-input case, which callers must treat differently from a
// non-empty input that produced suggestions.
type Result struct {
	TotalUnfulfilled    int          `json:"totalUnfulfilledOrders"`
	Suggestions         []Suggestion `json:"suggestions"`
	NoUnfulfilledOrders bool         `json:"-"`
}

type cluster struct {
	members []OrderPoint
}

func (c cluster) centroid() geo.Coordinate {
	var lat, lon float64
	for _, m := range c.members {
		lat += m.Position.Lat
		lon += m.Position.Lon
	}
	n := float64(len(c.members))
	// Flat-plane mean; fine at city scale.
	return geo.Coordinate{Lat: lat / n, Lon: lon / n}
}

// clusterOrders runs a single greedy pass: each unvisited order seeds
// a cluster and absorbs every remaining order within 2*radiusKm of the
// seed. Membership is decided against the seed only, so this is a
// cheap approximation of density clustering, and the outcome depends
// on input order. Re-running on the same sequence gives the same
// clusters.
func clusterOrders(orders []OrderPoint, radiusKm float64) []cluster {
	visited := make(map[uint]bool, len(orders))
	var clusters []cluster

	for _, seed := range orders {
		if visited[seed.ID] {
			continue
		}
		c := cluster{members: []OrderPoint{seed}}
		visited[seed.ID] = true

		for _, other := range orders {
			if visited[other.ID] {
				continue
			}
			if geo.DistanceKm(seed.Position, other.Position) <= radiusKm*2 {
				c.members = append(c.members, other)
				visited[other.ID] = true
			}
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// SuggestLocations clusters the given unfulfilled orders and returns
// the top clusters by coverage. It is purely advisory and never
// mutates anything; an empty input is a valid outcome, not an error.
func SuggestLocations(orders []OrderPoint, radiusKm float64) Result {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if len(orders) == 0 {
		return Result{NoUnfulfilledOrders: true}
	}

	total := len(orders)
	clusters := clusterOrders(orders, radiusKm)

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].members) > len(clusters[j].members)
	})
	if len(clusters) > MaxSuggestions {
		clusters = clusters[:MaxSuggestions]
	}

	suggestions := make([]Suggestion, 0, len(clusters))
	for _, c := range clusters {
		center := c.centroid()
		suggestions = append(suggestions, Suggestion{
			Lat:        center.Lat,
			Lon:        center.Lon,
			Percentage: fmt.Sprintf("%.2f%%", float64(len(c.members))/float64(total)*100),
			Covers:     len(c.members),
		})
	}

	return Result{TotalUnfulfilled: total, Suggestions: suggestions}
}
