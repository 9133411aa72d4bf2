package dadata

// findPartyRequest is the body of the findById/party call.
type findPartyRequest struct {
	Query string `json:"query"`
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"`
}

// findPartyResponse is the suggestion envelope DaData returns.
type findPartyResponse struct {
	Suggestions []suggestion `json:"suggestions"`
}

// suggestion carries one matched party. Value is the display name.
type suggestion struct {
	Value string         `json:"value"`
	Data  suggestionData `json:"data"`
}

type suggestionData struct {
	INN  string `json:"inn"`
	KPP  string `json:"kpp"`
	OGRN string `json:"ogrn"`
	Type string `json:"type"`
	Name struct {
		FullWithOPF  string `json:"full_with_opf"`
		ShortWithOPF string `json:"short_with_opf"`
	} `json:"name"`
}
