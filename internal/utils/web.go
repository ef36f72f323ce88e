package utils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gmorel-dev/pokedex/internal/errors"
)

// ErrorResponse is the JSON body returned for every failed request.
// Detail is optional debugging context (e.g. why a token was rejected).
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Print(err.Error())
	}
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	// default error is 500, internal detail stays out of the body
	statusCode := errors.StatusCode(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		if _, ok := err.(*errors.ErrorWithStatusCode); !ok {
			message = "Internal error"
		}
	}
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		log.Printf(err.Error())
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		log.Printf(err.Error())
		return &errors.ErrorWithStatusCode{Message: "Required fields missing or invalid", StatusCode: 400}
	}
	return nil
}
