package transcript

import "github.com/kbukum/fluency/util"

// Indexed is a word paired with its position in the transcript.
type Indexed struct {
	Index int
	Word  Word
}

// SelectEditable returns the words overlapping r, in transcript order, with
// their positions. It does not modify words.
func SelectEditable(words []Word, r TimeRange) []Indexed {
	all := make([]Indexed, len(words))
	for i, w := range words {
		all[i] = Indexed{Index: i, Word: w}
	}
	return util.Filter(all, func(iw Indexed) bool {
		return iw.Word.Overlaps(r)
	})
}
