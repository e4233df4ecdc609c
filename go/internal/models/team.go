package models

// NFLTeams holds the franchise codes a player's nfl team must come from
var NFLTeams = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"MIA", "MIN", "NE", "NO", "NYG", "NYJ", "LV", "PHI",
	"PIT", "LAC", "SF", "SEA", "LAR", "TB", "TEN", "WAS",
}
