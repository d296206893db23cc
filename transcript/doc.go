// Package transcript holds the word-level transcript being corrected, the
// playback time range, and the filter that decides which words are editable.
//
// Words keep their position for life: an edit replaces the word at the
// index it was opened from and never searches by content. A Store stamps
// every word with an ID at ingestion and bumps its generation on each
// wholesale replacement, so an edit opened against an earlier transcript
// is detected instead of landing on an unrelated word.
package transcript
