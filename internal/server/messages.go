package server

import "lol-leaderboard/internal/session"

type GetLeaderboardRequest struct{}

type LeaderboardResponse struct {
	View session.View `json:"view"`
}

type SetQueueRequest struct {
	Queue string `json:"queue"`
}

type SetSearchTermRequest struct {
	Term string `json:"term"`
}

type TriggerRefreshRequest struct{}

type AckResponse struct {
	Accepted bool `json:"accepted"`
}

type hubMessage struct {
	Type string       `json:"type"`
	View session.View `json:"view"`
}
