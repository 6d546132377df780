package models

// TrendingResponse is the body of GET /spotify/trending.
type TrendingResponse struct {
	Success   bool           `json:"success"`
	Count     int            `json:"count"`
	Songs     []TrendingSong `json:"songs"`
	Timestamp string         `json:"timestamp"`
}

// SearchResponse is the body of GET /spotify/search.
type SearchResponse struct {
	Success   bool   `json:"success"`
	Query     string `json:"query"`
	Count     int    `json:"count"`
	Songs     []Song `json:"songs"`
	Timestamp string `json:"timestamp"`
}

// AutocompleteResponse is the body of GET /spotify/autocomplete.
type AutocompleteResponse struct {
	Success     bool         `json:"success"`
	Query       string       `json:"query"`
	Count       int          `json:"count"`
	Suggestions []Suggestion `json:"suggestions"`
	Timestamp   string       `json:"timestamp"`
}

// SongResponse is the body of GET /spotify/song/{id}.
type SongResponse struct {
	Success   bool   `json:"success"`
	Song      *Song  `json:"song"`
	Timestamp string `json:"timestamp"`
}

// ConnectionResponse is the body of GET /spotify/test-connection.
type ConnectionResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Details   *ConnectionStatus `json:"details"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse is the failure envelope shared by every /spotify route.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Message is a bare {"message": ...} body.
type Message struct {
	Message string `json:"message"`
}
