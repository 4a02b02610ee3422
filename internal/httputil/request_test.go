package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Home"}`))
	if err := ParseJSON(httptest.NewRecorder(), r, &dest); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if dest.Name != "Home" {
		t.Errorf("Name = %q", dest.Name)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"nmae":"typo"}`))
	if err := ParseJSON(httptest.NewRecorder(), r, &dest); err == nil {
		t.Error("unknown fields should be rejected")
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?max_depth=2&bad=x", nil)

	if v, ok, err := QueryInt(r, "max_depth"); err != nil || !ok || v != 2 {
		t.Errorf("QueryInt(max_depth) = %d, %v, %v", v, ok, err)
	}
	if _, ok, err := QueryInt(r, "missing"); err != nil || ok {
		t.Errorf("QueryInt(missing) = %v, %v", ok, err)
	}
	if _, _, err := QueryInt(r, "bad"); err == nil {
		t.Error("QueryInt(bad) should fail")
	}
}

func TestQueryList(t *testing.T) {
	r := httptest.NewRequest("GET", "/?kinds=node,%20note,,", nil)
	got := QueryList(r, "kinds")
	if len(got) != 2 || got[0] != "node" || got[1] != "note" {
		t.Errorf("QueryList = %v", got)
	}
}
