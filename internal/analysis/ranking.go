package analysis

import "sort"

// RankedGroup is one entry of a per-network-size ranking.
type RankedGroup struct {
	Rank          int
	Configuration string
	Nodes         int
	Value         float64 // the group mean
}

// RankByNodes orders the configurations measured at each node count by their
// mean. higherIsBetter selects descending order (PDR, PRR) or ascending order
// (BER, energy). Ties keep configuration name order.
func RankByNodes(groups map[GroupKey]AggregatedGroup, higherIsBetter bool) map[int][]RankedGroup {
	byNodes := make(map[int][]RankedGroup)
	for _, gk := range GroupKeysOf(groups) {
		g := groups[gk]
		byNodes[gk.Nodes] = append(byNodes[gk.Nodes], RankedGroup{
			Configuration: gk.Configuration,
			Nodes:         gk.Nodes,
			Value:         g.Mean,
		})
	}

	for nodes, ranked := range byNodes {
		sort.SliceStable(ranked, func(i, j int) bool {
			if higherIsBetter {
				return ranked[i].Value > ranked[j].Value // Descending
			}
			return ranked[i].Value < ranked[j].Value
		})
		for i := range ranked {
			ranked[i].Rank = i + 1
		}
		byNodes[nodes] = ranked
	}
	return byNodes
}
