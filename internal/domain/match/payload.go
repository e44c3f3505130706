package match

// Payload is a matches response document from the remote competitions API.
type Payload struct {
	Filters   map[string]any `json:"filters"`
	ResultSet PayloadResult  `json:"resultSet"`
	Matches   []PayloadMatch `json:"matches"`
}

type PayloadResult struct {
	Count int    `json:"count"`
	First string `json:"first"`
	Last  string `json:"last"`
}

type PayloadMatch struct {
	ID          int64              `json:"id"`
	UTCDate     string             `json:"utcDate"`
	Status      string             `json:"status"`
	Matchday    *int               `json:"matchday"`
	Stage       string             `json:"stage"`
	HomeTeam    PayloadTeam        `json:"homeTeam"`
	AwayTeam    PayloadTeam        `json:"awayTeam"`
	Competition PayloadCompetition `json:"competition"`
	Season      PayloadSeason      `json:"season"`
	Score       PayloadScore       `json:"score"`
}

type PayloadTeam struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}

type PayloadCompetition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}

type PayloadSeason struct {
	ID        int64  `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type PayloadScore struct {
	Winner   string           `json:"winner"`
	Duration string           `json:"duration"`
	FullTime PayloadScoreLine `json:"fullTime"`
	HalfTime PayloadScoreLine `json:"halfTime"`
}

// PayloadScoreLine keeps nil goals distinct from zero goals.
type PayloadScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
