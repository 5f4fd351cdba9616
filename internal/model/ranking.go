package model

import "sort"

// Scoring weights for the leaderboard fold.
const (
	KillPoints   = 3
	CheckPoints  = 2
	DeathPenalty = 1
)

// RankLine is one player's aggregated entry in the leaderboard.
type RankLine struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Kills    int    `json:"kills"`
	Checks   int    `json:"checks"`
	Deaths   int    `json:"deaths"`
	Total    int    `json:"total"`
	Rank     int    `json:"rank"`
}

// ScoreDelta returns the total-score contribution of a single event.
func ScoreDelta(t ResultType) int {
	switch t {
	case ResultKill:
		return KillPoints
	case ResultCheck:
		return CheckPoints
	case ResultDeath:
		return -DeathPenalty
	}
	return 0
}

// BuildRanking folds results into one line per participant and sorts the
// leaderboard. Every registered participant gets a line, so zero-event
// players still rank. Order: total desc, kills desc, deaths asc (fewer deaths
// ranks higher), name asc.
func BuildRanking(participants []Participant, results []GameResult) []RankLine {
	lines := make([]RankLine, 0, len(participants))
	index := make(map[string]int, len(participants))
	for _, p := range participants {
		index[p.PlayerID] = len(lines)
		lines = append(lines, RankLine{PlayerID: p.PlayerID, Name: p.Name})
	}

	for _, r := range results {
		i, ok := index[r.PlayerID]
		if !ok {
			continue
		}
		switch r.Type {
		case ResultKill:
			lines[i].Kills++
		case ResultCheck:
			lines[i].Checks++
		case ResultDeath:
			lines[i].Deaths++
		}
		lines[i].Total += ScoreDelta(r.Type)
	}

	sort.SliceStable(lines, func(a, b int) bool {
		la, lb := lines[a], lines[b]
		if la.Total != lb.Total {
			return la.Total > lb.Total
		}
		if la.Kills != lb.Kills {
			return la.Kills > lb.Kills
		}
		if la.Deaths != lb.Deaths {
			return la.Deaths < lb.Deaths
		}
		return la.Name < lb.Name
	})

	for i := range lines {
		lines[i].Rank = i + 1
	}
	return lines
}
