package models

type DashboardStats struct {
	PlayersTotal     int `json:"players_total"`
	TournamentsTotal int `json:"tournaments_total"`
	MatchesTotal     int `json:"matches_total"`
	ByesTotal        int `json:"byes_total"`
}
