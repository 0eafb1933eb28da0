// Package strokedata loads the reference stroke file and the practice word
// list from JSON and serves them through the store.ReferenceSource interface.
//
// The stroke file maps each character to its strokes in drawing order, each
// stroke being a list of [x, y] points in the unit square:
//
//	{"人": [[[0.48, 0.12], [0.42, 0.55], [0.18, 0.88]], [[0.5, 0.45], [0.82, 0.88]]]}
//
// The word list is an array of objects with id, simplified, pinyin,
// english_gloss and an optional audio_ref.
//
// Both files are read once by Load; the resulting Source is immutable and safe
// for concurrent use.
package strokedata
