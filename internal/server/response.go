package server

import (
	"encoding/json"
	"net/http"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type imageURL struct {
	URL string `json:"url"`
}

type uploadData struct {
	Image imageURL `json:"image"`
}

// successResp is returned after an image has been stored.
type successResp struct {
	Status string     `json:"status"`
	Data   uploadData `json:"data"`
}

// errorResp is the body of every failed upload response.
type errorResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, url string) {
	writeJSON(w, http.StatusOK, successResp{
		Status: statusSuccess,
		Data:   uploadData{Image: imageURL{URL: url}},
	})
}

// writeError renders an apiError as the JSON error envelope. Unauthorized
// responses also carry the Basic challenge.
func writeError(w http.ResponseWriter, e *apiError, realm string) {
	if e.kind == kindUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
	}
	// The request body may be only partly consumed.
	if e.kind == kindTooLarge {
		w.Header().Set("Connection", "close")
	}
	writeJSON(w, e.statusCode(), errorResp{
		Status:  statusError,
		Message: e.message,
	})
}
