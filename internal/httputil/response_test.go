package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusUnprocessableEntity, "too deep", map[string]interface{}{
		"error_kind": "depth_exceeded",
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error_kind"] != "depth_exceeded" {
		t.Errorf("error_kind = %v", body["error_kind"])
	}
	if body["detail"] != "too deep" {
		t.Errorf("detail = %v", body["detail"])
	}
	if body["title"] != "Unprocessable Entity" {
		t.Errorf("title = %v", body["title"])
	}
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"id":"1"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}
