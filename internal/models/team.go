package models

import "time"

// Contest is the contest configuration delivered alongside views.
type Contest struct {
	Name      string `json:"name"`
	StartTime int64  `json:"start_time"`
	Duration  int64  `json:"duration"`
	Phase     Phase  `json:"state"`
}

// Banner describes what a participant sees instead of, or above, the graph.
type Banner string

// Participant banners.
const (
	BannerPreparing Banner = "preparing"
	BannerCountdown Banner = "countdown"
	BannerRunning   Banner = "running"
	BannerEnded     Banner = "ended"
)

// BannerAt returns the participant banner for the contest at now.
func (c Contest) BannerAt(now time.Time) Banner {
	if c.Phase == PhaseEditing {
		return BannerPreparing
	}

	ts := now.Unix()
	switch {
	case ts < c.StartTime:
		return BannerCountdown
	case ts > c.StartTime+c.Duration:
		return BannerEnded
	default:
		return BannerRunning
	}
}

// Countdown returns the time left until the contest starts, or zero.
func (c Contest) Countdown(now time.Time) time.Duration {
	left := time.Unix(c.StartTime, 0).Sub(now)
	if left < 0 {
		return 0
	}

	return left.Truncate(time.Second)
}

// TeamView is the participant payload: nodes with per-node status plus team
// metadata and the contest phase.
type TeamView struct {
	TeamName    string            `json:"team_name"`
	Handles     []string          `json:"cf_handles"`
	SolvedCount int               `json:"solved_count"`
	Score       int               `json:"score"`
	Nodes       []Node            `json:"nodes"`
	Status      map[string]Status `json:"status"`
	Contest     Contest           `json:"contest"`
}

// TeamState is the operator's inspection payload for one team.
type TeamState struct {
	Name   string            `json:"name"`
	Status map[string]Status `json:"status"`
}
