package format

import (
	"bytes"
	"strings"
	"testing"
)

type textPayload struct {
	Name string `json:"name"`
}

func (p textPayload) Text() string { return "name: " + p.Name + "\n" }

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, textPayload{Name: "oats"}, "text", false); err != nil {
		t.Fatalf("text: %v", err)
	}
	if buf.String() != "name: oats\n" {
		t.Fatalf("unexpected text: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, textPayload{Name: "oats"}, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"name":"oats"}` {
		t.Fatalf("unexpected json: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"n": 1}, "text", false); err != nil {
		t.Fatalf("text fallback: %v", err)
	}
	if !strings.Contains(buf.String(), "\"n\": 1") {
		t.Fatalf("expected indented json fallback, got %q", buf.String())
	}

	if err := Write(&buf, nil, "edn", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
