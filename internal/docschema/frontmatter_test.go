package docschema

import "testing"

func TestParseNoFrontmatter(t *testing.T) {
	doc := "# Title\n\nBody.\n"
	meta, body, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if body != doc {
		t.Errorf("body = %q, want input unchanged", body)
	}
	if meta.Dir != "" || meta.Workdir != "" || len(meta.Vars) != 0 {
		t.Errorf("meta should be zero, got %+v", meta)
	}
}

func TestParseFullFrontmatter(t *testing.T) {
	doc := "---\ndir: ./docs\nworkdir: /srv/app\nvars:\n  name: world\n  count: 3\n---\n# Title\n"
	meta, body, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Dir != "./docs" {
		t.Errorf("Dir = %q", meta.Dir)
	}
	if meta.Workdir != "/srv/app" {
		t.Errorf("Workdir = %q", meta.Workdir)
	}
	if meta.Vars["name"] != "world" {
		t.Errorf("Vars[name] = %q", meta.Vars["name"])
	}
	// Weak typing: YAML integers become strings
	if meta.Vars["count"] != "3" {
		t.Errorf("Vars[count] = %q, want \"3\"", meta.Vars["count"])
	}
	if body != "# Title\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	doc := "---\nmodel: gpt-complete\ntemperature: 0.3\nvars:\n  a: b\n---\nbody\n"
	meta, body, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse should ignore unrelated frontmatter keys: %v", err)
	}
	if meta.Vars["a"] != "b" {
		t.Errorf("Vars[a] = %q", meta.Vars["a"])
	}
	if body != "body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseUnterminatedFrontmatter(t *testing.T) {
	doc := "---\ndir: ./docs\nno closing delimiter\n"
	_, body, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if body != doc {
		t.Errorf("unterminated frontmatter should leave the document unchanged")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	doc := "---\n: : :\n---\nbody\n"
	_, body, err := Parse(doc)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if body != doc {
		t.Errorf("on error the document should be returned unchanged")
	}
}
