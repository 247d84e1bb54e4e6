// Package docschema extracts the document metadata the expansion pipeline
// consumes: a directory override for relative imports, a working directory
// for subprocess commands, and named substitution variables. The document
// schema at large belongs to downstream consumers; unknown frontmatter keys
// are ignored here.
package docschema

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// DocMeta is the subset of frontmatter the resolver needs.
type DocMeta struct {
	Dir     string            `mapstructure:"dir"`
	Workdir string            `mapstructure:"workdir"`
	Vars    map[string]string `mapstructure:"vars"`
}

// Parse splits YAML frontmatter from a document and decodes the fields the
// pipeline consumes. Documents without frontmatter return a zero DocMeta and
// the input unchanged.
func Parse(doc string) (DocMeta, string, error) {
	var meta DocMeta

	raw, body, found := splitFrontmatter(doc)
	if !found {
		return meta, doc, nil
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return meta, doc, &FrontmatterError{Cause: err}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true, // frontmatter scalars may be numbers or bools
	})
	if err != nil {
		return meta, doc, &FrontmatterError{Cause: err}
	}
	if err := decoder.Decode(fields); err != nil {
		return meta, doc, &FrontmatterError{Cause: err}
	}

	return meta, body, nil
}

// splitFrontmatter returns the raw YAML block and the remaining body.
// Frontmatter must start on the first line with "---" and end at the next
// line consisting of "---".
func splitFrontmatter(doc string) (raw, body string, found bool) {
	if !strings.HasPrefix(doc, frontmatterDelimiter+"\n") &&
		!strings.HasPrefix(doc, frontmatterDelimiter+"\r\n") {
		return "", doc, false
	}

	lines := strings.SplitAfter(doc, "\n")
	var b strings.Builder
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == frontmatterDelimiter {
			return b.String(), strings.Join(lines[i+1:], ""), true
		}
		b.WriteString(lines[i])
	}

	// Unterminated frontmatter: treat the document as having none
	return "", doc, false
}
