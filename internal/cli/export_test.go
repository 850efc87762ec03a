package cli

import (
	"encoding/json"
	"testing"

	"github.com/SeamusWaldron/twisty/internal/storage"
)

func TestFormatTurns(t *testing.T) {
	records := []storage.TurnRecord{
		{TurnIndex: 0, TsMs: 10, Face: "R", Direction: 1, Notation: "R", Source: "key"},
		{TurnIndex: 1, TsMs: 20, Face: "U", Direction: -1, Notation: "U'", Source: "gesture"},
	}

	txt, err := formatTurns(records, "txt")
	if err != nil {
		t.Fatal(err)
	}
	if txt != "R U'" {
		t.Errorf("txt = %q", txt)
	}

	out, err := formatTurns(records, "JSON")
	if err != nil {
		t.Fatal(err)
	}
	var turns []turnJSON
	if err := json.Unmarshal([]byte(out), &turns); err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 || turns[1].Source != "gesture" || turns[1].Direction != -1 {
		t.Errorf("json = %+v", turns)
	}

	if _, err := formatTurns(records, "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}
