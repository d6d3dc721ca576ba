package handlers

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"time"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 100 << 10
)

type Response struct {
	Message string `json:"message"`
}

func WriteResponse(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, &Response{Message: msg}, status)
}

func writeJSON(w http.ResponseWriter, v interface{}, status int) {
	res, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

// readJSON decodes at most maxBodyBytes of the request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	return json.Unmarshal(body, v)
}

// writeReadError answers a body that could not be read or decoded.
func writeReadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteResponse(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	WriteResponse(w, "bad request", http.StatusBadRequest)
}
