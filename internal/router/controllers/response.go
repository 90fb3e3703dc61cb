package controllers

import (
	"net/http"

	"github.com/dondinetwork/go-dondi/pkg/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	codeOK          = "200"
	codeBadRequest  = "400"
	codeUnavailable = "503"
	codeExists      = "1001"

	textSuccess     = "Success"
	textUnavailable = "Service Unavailable"
)

// Envelope is the body of every API response. Code is a string.
type Envelope struct {
	Code  string      `json:"code"`
	Text  string      `json:"text"`
	Value interface{} `json:"value"`
}

// Responder writes envelopes.
type Responder struct {
	legacyStatusCodes bool
}

// NewResponder creates a Responder. With legacyStatusCodes every envelope is
// sent with HTTP 200 and only the envelope code tells the outcome.
func NewResponder(legacyStatusCodes bool) *Responder {
	return &Responder{legacyStatusCodes: legacyStatusCodes}
}

func (re *Responder) write(rw http.ResponseWriter, status int, env Envelope) {
	if re.legacyStatusCodes {
		status = http.StatusOK
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(env)
}

// OK writes a successful envelope.
func (re *Responder) OK(rw http.ResponseWriter, text string, value interface{}) {
	re.write(rw, http.StatusOK, Envelope{Code: codeOK, Text: text, Value: value})
}

// Fail writes the envelope of err. Validation errors are client errors and
// everything else makes the service unavailable.
func (re *Responder) Fail(rw http.ResponseWriter, r *http.Request, err error) {
	if errors.IsValidation(err) {
		log.Ctx(r.Context()).Warn().Err(err).Msg("invalid request")
		re.write(rw, http.StatusBadRequest, Envelope{Code: codeBadRequest, Text: err.Error()})
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	re.write(rw, http.StatusServiceUnavailable, Envelope{Code: codeUnavailable, Text: textUnavailable, Value: err.Error()})
}

// Conflict writes the envelope of an already existing resource.
func (re *Responder) Conflict(rw http.ResponseWriter, text string, value interface{}) {
	re.write(rw, http.StatusConflict, Envelope{Code: codeExists, Text: text, Value: value})
}
