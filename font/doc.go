// Package font resolves PDF font metadata into character substitution
// pools grouped by Unicode general category.
//
// Anonymizing text while keeping a document renderable requires substitute
// characters the font can actually display. This package builds, per font,
// a CategoryMap: for each Unicode general category, the set of characters
// the font is known to cover. Substitutions then stay within the original
// character's category, so case, script, and digit-ness survive mangling.
//
// # Resolution priority
//
// A font's pool is resolved from the richest metadata available:
//
//  1. A /CharSet glyph-name list on the font descriptor (MapCharSet).
//  2. A /ToUnicode CMap stream (ParseCMap + Categorize).
//  3. A /FirstChar../LastChar code range (MapNumericRange).
//  4. The baseline Adobe Latin-1 pool (Latin).
//
// # Pass-through categories
//
// Categories whose first letter is P, M, Z, C, or S (punctuation, marks,
// separators, control/other, symbols) are never substituted and never
// enter a pool. Structure characters such as spaces, commas, and math
// signs stay put so the text keeps its visual rhythm.
//
// # Default subsets
//
// Each pool carries a Default subset per category: the intersection with
// plain ASCII letters and digits. When the original character is itself in
// the subset, replacements are drawn from it, which keeps mangled Latin
// text looking like Latin text instead of a ransom note.
//
// # CMaps
//
// For composite fonts showing text as fixed-width binary codes, ParseCMap
// builds both the code-to-text mapping and its inverse. The inverse is what
// lets mangled text be re-encoded into codes the font still understands.
package font
