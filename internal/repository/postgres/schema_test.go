package postgres

import (
	"strings"
	"testing"
)

func TestFTSIndexes(t *testing.T) {
	tables := NewTableNames("test_")
	indexes := ftsIndexes(tables, "test_")

	want := []string{
		"ON test_containers USING GIN (" + TSVector("english", "name") + ")",
		"ON test_notes USING GIN (" + TSVector("english", "title") + ")",
		"ON test_notes USING GIN (" + TSVector("english", "body") + ")",
		"ON test_nodes USING GIN (" + TSVector("simple", "title") + ")",
	}
	for _, w := range want {
		found := false
		for _, idx := range indexes {
			if strings.Contains(idx, w) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no index %q in %v", w, indexes)
		}
	}
}

func TestTSVector(t *testing.T) {
	if got := TSVector("english", "e.title"); got != "to_tsvector('english'::regconfig, e.title)" {
		t.Errorf("TSVector = %q", got)
	}
}
