package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code  string              `json:"code"`
	Text  string              `json:"text"`
	Value jsoniter.RawMessage `json:"value"`
}

func get(t *testing.T, h http.HandlerFunc, target string) (int, envelope) {
	t.Helper()
	return serve(t, h, httptest.NewRequest(http.MethodGet, target, nil))
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) (int, envelope) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return serve(t, h, r)
}

func serve(t *testing.T, h http.HandlerFunc, r *http.Request) (int, envelope) {
	t.Helper()

	rw := httptest.NewRecorder()
	h(rw, r)
	require.Equal(t, "application/json", rw.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&env))
	return rw.Code, env
}

func value(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Value, v))
}

func newRecorder(method, target string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(method, target, nil)
}
