package blocks

import "unicode/utf8"

// InsertTextAfter inserts an empty text block right after afterID, or at the
// end when afterID is empty or unknown. It returns the new block's id; the
// caret belongs at offset 0 of that block.
func InsertTextAfter(doc Document, afterID string) (Document, string) {
	b := NewText("")
	return insertAfter(doc, afterID, b), b.ID
}

// UpdateText replaces the content of text block id. Unknown ids and image
// blocks leave the document unchanged.
func UpdateText(doc Document, id, content string) Document {
	i := doc.Index(id)
	if i < 0 || !doc[i].IsText() {
		return doc
	}
	out := doc.Clone()
	out[i].Content = content
	return out
}

// SplitOnEnter handles Enter in text block id. A new empty text block is
// created after it only when cursor is at (or past) the end of the content;
// a break inside the text is left to the text field itself and ok is false.
func SplitOnEnter(doc Document, id string, cursor int) (Document, Focus, bool) {
	i := doc.Index(id)
	if i < 0 || !doc[i].IsText() {
		return doc, Focus{}, false
	}
	if cursor < utf8.RuneCountInString(doc[i].Content) {
		return doc, Focus{}, false
	}
	next, newID := InsertTextAfter(doc, id)
	return next, Focus{BlockID: newID, Offset: 0}, true
}

// MergeWithPrevious handles Backspace at offset 0 of text block id. When the
// previous block is also text, the two are joined into the previous block and
// the focus points at the seam. Otherwise ok is false and nothing changes.
func MergeWithPrevious(doc Document, id string) (Document, Focus, bool) {
	i := doc.Index(id)
	if i <= 0 || !doc[i].IsText() || !doc[i-1].IsText() {
		return doc, Focus{}, false
	}

	prev := doc[i-1]
	seam := utf8.RuneCountInString(prev.Content)

	out := make(Document, 0, len(doc)-1)
	out = append(out, doc[:i-1]...)
	prev.Content += doc[i].Content
	out = append(out, prev)
	out = append(out, doc[i+1:]...)

	return out, Focus{BlockID: prev.ID, Offset: seam}, true
}

// Remove deletes block id and returns it so the caller can release any
// resource it holds (such as a local preview URL). Removing the last block
// leaves one fresh empty text block.
func Remove(doc Document, id string) (Document, Block, bool) {
	i := doc.Index(id)
	if i < 0 {
		return doc, Block{}, false
	}
	removed := doc[i]

	out := make(Document, 0, len(doc))
	out = append(out, doc[:i]...)
	out = append(out, doc[i+1:]...)
	if len(out) == 0 {
		out = New()
	}
	return out, removed, true
}

// MoveUp swaps block id with its predecessor. No-op for the first block.
func MoveUp(doc Document, id string) Document {
	i := doc.Index(id)
	if i <= 0 {
		return doc
	}
	return swap(doc, i, i-1)
}

// MoveDown swaps block id with its successor. No-op for the last block.
func MoveDown(doc Document, id string) Document {
	i := doc.Index(id)
	if i < 0 || i == len(doc)-1 {
		return doc
	}
	return swap(doc, i, i+1)
}

// ToggleWidth flips an image between full and half width. Any width other
// than full goes to full.
func ToggleWidth(doc Document, id string) Document {
	i := doc.Index(id)
	if i < 0 || !doc[i].IsImage() {
		return doc
	}
	out := doc.Clone()
	if out[i].Width == MaxWidth {
		out[i].Width = HalfWidth
	} else {
		out[i].Width = MaxWidth
	}
	return out
}

// Resize sets an image's width, clamped to [MinWidth, MaxWidth]
func Resize(doc Document, id string, width float64) Document {
	i := doc.Index(id)
	if i < 0 || !doc[i].IsImage() {
		return doc
	}
	out := doc.Clone()
	out[i].Width = ClampWidth(width)
	return out
}

func swap(doc Document, i, j int) Document {
	out := doc.Clone()
	out[i], out[j] = out[j], out[i]
	return out
}

// insertAfter places blocks right after afterID, or at the end
func insertAfter(doc Document, afterID string, blocks ...Block) Document {
	pos := len(doc)
	if afterID != "" {
		if i := doc.Index(afterID); i >= 0 {
			pos = i + 1
		}
	}

	out := make(Document, 0, len(doc)+len(blocks))
	out = append(out, doc[:pos]...)
	out = append(out, blocks...)
	out = append(out, doc[pos:]...)
	return out
}
