package blocks

import (
	"encoding/json"
	"strings"
)

// Marshal returns the persisted form: a JSON array of blocks
func Marshal(doc Document) (string, error) {
	if len(doc) == 0 {
		doc = New()
	}
	data, err := json.Marshal([]Block(doc))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse reads a stored description. It never fails:
//   - "" (or only whitespace) gives one empty text block
//   - a JSON array of blocks is decoded and repaired (ids, widths, unknown types)
//   - anything else is legacy plain text and becomes one text block, as is a
//     non-empty array in which no element is a usable block
func Parse(s string) Document {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return New()
	}

	if strings.HasPrefix(trimmed, "[") {
		var decoded []Block
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			doc := repair(decoded)
			switch {
			case len(doc) > 0:
				return doc
			case len(decoded) == 0:
				return New()
			}
		}
	}

	return Document{NewText(s)}
}

// repair drops blocks of unknown type, assigns ids to blocks missing one or
// repeating an earlier id and clamps image widths. The result may be empty.
func repair(in []Block) Document {
	out := make(Document, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, b := range in {
		switch b.Type {
		case TypeText:
		case TypeImage:
			b.Width = ClampWidth(b.Width)
			switch b.Status {
			case StatusUploading, StatusFailed, StatusComplete:
			default:
				b.Status = StatusComplete
			}
		default:
			continue
		}

		if _, dup := seen[b.ID]; b.ID == "" || dup {
			b.ID = newID()
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}

// PlainText joins the content of all text blocks with blank lines. Used for
// search indexing and list excerpts.
func PlainText(doc Document) string {
	parts := make([]string, 0, len(doc))
	for _, b := range doc {
		if b.IsText() && strings.TrimSpace(b.Content) != "" {
			parts = append(parts, b.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
