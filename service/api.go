package service

// RequestIDHeader carries the request identifier on every request and
// response.
const RequestIDHeader = "X-Request-ID"

type Error struct {
	Type    string `json:"type"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

type CompileRequest struct {
	Filter string `json:"filter"`
}

type CompileResponse struct {
	Fields []string `json:"fields"`
}

type EvalRequest struct {
	Filter string                 `json:"filter"`
	Values map[string]interface{} `json:"values"`
}

type EvalResponse struct {
	Match bool `json:"match"`
}

type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

type StatusResponse struct {
	Evaluations int64      `json:"evaluations"`
	RatePerSec  int64      `json:"rate_per_sec"`
	Cache       CacheStats `json:"cache"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
