package httpserver

import (
	"encoding/json"
	"net/http"
)

type readingJSON struct {
	Cumulative  float64 `json:"cumulative"`
	ReadingDate string  `json:"readingDate"`
	Unit        string  `json:"unit"`
}

// createReadingJSON uses pointers so a missing field can be told apart from zero.
type createReadingJSON struct {
	Cumulative  *float64 `json:"cumulative"`
	ReadingDate *string  `json:"readingDate"`
	Unit        string   `json:"unit"`
}

// usageJSON is one month of usage; ReadingDate holds the "Jan-2006" label.
type usageJSON struct {
	Cumulative  float64 `json:"cumulative"`
	ReadingDate string  `json:"readingDate"`
	Unit        string  `json:"unit"`
}

type apiErrorJSON struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
