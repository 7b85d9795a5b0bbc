package tokenizer

// ContentMode selects which of spec §4.3's data-group states governs text
// scanning: DATA (the default, where `<` opens a tag and `$`/character
// references are active), RCDATA (character references and `$` still
// active, but `<` only matters when it opens an appropriate end tag),
// RAWTEXT (no character references or `$`, `<` only for an appropriate
// end tag), or PLAINTEXT (no further tag recognition at all). The
// generator (C9) selects a mode via SetContentMode, mirroring spec §4.3's
// "delegation: ... switches the tokenizer's sub-mode when required."; the
// tokenizer itself returns to DATA whenever it emits an end tag.
type ContentMode int

const (
	ModeData ContentMode = iota
	ModeRCDATA
	ModeRAWTEXT
	ModePlaintext
)
