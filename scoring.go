package main

import (
	"crypto/rand"
	"math/big"
	"sort"
)

// award computes the points for a submitted answer: a flat base for a correct
// answer plus a speed bonus proportional to the time remaining, capped at
// cfg.scoreBonus. Incorrect answers score zero.
func award(cfg *Config, correct bool, timeRemaining float64) int {
	if !correct {
		return 0
	}

	total := cfg.questionDuration.Seconds()

	switch {
	case timeRemaining < 0:
		timeRemaining = 0
	case timeRemaining > total:
		timeRemaining = total
	}

	return cfg.scoreBase + int(float64(cfg.scoreBonus)*timeRemaining/total)
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Score     int    `json:"score"`
}

// buildLeaderboard ranks players by score descending, breaking ties by join
// time. Players who never answered anything are omitted. Ranks increase once
// per distinct score, so exact ties share a rank.
func buildLeaderboard(players []*Player) []LeaderboardEntry {
	ranked := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.answered() > 0 {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].JoinedAt.Before(ranked[j].JoinedAt)
	})

	board := make([]LeaderboardEntry, 0, len(ranked))
	rank := 0
	lastScore := -1

	for i, p := range ranked {
		if i == 0 || p.Score != lastScore {
			rank++
			lastScore = p.Score
		}
		board = append(board, LeaderboardEntry{
			Rank:      rank,
			Name:      p.Name,
			Character: p.Character,
			Score:     p.Score,
		})
	}

	return board
}

// Emoji avatars handed out at registration.
var avatarPool = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯",
	"🦁", "🐮", "🐷", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤", "🦆",
	"🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
	"🐌", "🐞", "🐜", "🦂", "🐢", "🐍", "🦎", "🐙", "🦑", "🦀",
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// pickCharacter draws a random unassigned avatar. Once the pool is exhausted,
// it falls back to a draw from the full pool, so collisions become possible
// only then.
func pickCharacter(assigned map[string]bool) string {
	free := make([]string, 0, len(avatarPool))
	for _, a := range avatarPool {
		if !assigned[a] {
			free = append(free, a)
		}
	}

	if len(free) > 0 {
		return free[randIndex(len(free))]
	}

	return avatarPool[randIndex(len(avatarPool))]
}
