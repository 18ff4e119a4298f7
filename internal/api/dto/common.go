package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// ImportError locates a failed record inside an uploaded batch.
type ImportError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ImportResult summarizes a bulk import: how many records went through
// and, per failing record, why it was rejected.
type ImportResult struct {
	Message  string        `json:"message"`
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors,omitempty"`
}
