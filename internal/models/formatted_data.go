package models

// CantonSummary is the per-canton overview returned by the API
type CantonSummary struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	PoliticalCommunities int    `json:"political_communities"`
	Districts            int    `json:"districts"`
}

// DistrictNames lists the districts reached from a zip code
type DistrictNames struct {
	ZipCode   string   `json:"zip_code"`
	Districts []string `json:"districts"`
}

// LastUpdate is the last update date of a postal community's political
// community, formatted as YYYY-MM-DD
type LastUpdate struct {
	PostalCommunity string `json:"postal_community"`
	LastUpdate      string `json:"last_update"`
}

// Count is the result of every counting query
type Count struct {
	Count int `json:"count"`
}
