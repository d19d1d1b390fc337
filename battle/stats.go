package battle

// NetworkStats is one row of the leaderboard
type NetworkStats struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Battles int     `json:"battles"`
	WinRate float64 `json:"win_rate"`
}

// Stats is the leaderboard payload
type Stats struct {
	NeuralNets []NetworkStats `json:"neural_nets"`
}

// Tally counts wins and appearances per network name from votes
// Networks are listed in order of first appearance in battles
// Votes for unknown battles or with an invalid winner are ignored
func Tally(battles []Battle, votes []Vote) Stats {
	byID := make(map[ID]*Battle, len(battles))
	index := make(map[string]int)
	var rows []NetworkStats

	for i := range battles {
		b := &battles[i]
		byID[b.ID] = b
		for _, s := range []Side{SideA, SideB} {
			name := b.Network(s).Name
			if _, ok := index[name]; !ok {
				index[name] = len(rows)
				rows = append(rows, NetworkStats{Name: name})
			}
		}
	}

	for _, v := range votes {
		b, ok := byID[v.BattleID]
		if !ok {
			continue
		}
		winner, err := v.Side()
		if err != nil {
			continue
		}
		rows[index[b.A.Name]].Battles++
		if b.B.Name != b.A.Name {
			rows[index[b.B.Name]].Battles++
		}
		rows[index[b.Network(winner).Name]].Wins++
	}

	for i := range rows {
		if rows[i].Battles > 0 {
			rows[i].WinRate = float64(rows[i].Wins) / float64(rows[i].Battles)
		}
	}
	if rows == nil {
		rows = []NetworkStats{}
	}
	return Stats{NeuralNets: rows}
}
