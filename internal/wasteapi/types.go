package wasteapi

import (
	"encoding/json"

	"wastechart/internal/core"
)

const (
	LoginEndpoint   = "/auth/login"
	RecordsEndpoint = "/waste-records/month/{month}/year/{year}"

	// The API does not always label its JSON bodies.
	jsonContentType = "application/json"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse covers both outcomes of the login endpoint:
// {"success": true, "data": "<token>"} and {"success": false, "message": "..."}.
type loginResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type recordsResponse struct {
	Data []core.WasteRecord `json:"data"`
}
