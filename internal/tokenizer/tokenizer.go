package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultSequenceLength is the fixed encoding window fed to the scoring
// service.
const DefaultSequenceLength = 200

// filterChars are stripped before splitting, matching the preprocessing
// the vocabulary was built with (punctuation, tabs and newlines become
// spaces; case is lowered).
const filterChars = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// Tokenizer encodes free text into the fixed-length integer vector the
// scoring service expects. The word index is immutable after construction,
// so a single Tokenizer is safe for concurrent use.
type Tokenizer struct {
	wordIndex map[string]int
	seqLen    int
}

// New builds a Tokenizer from an already-loaded word index. seqLen <= 0
// falls back to DefaultSequenceLength.
func New(wordIndex map[string]int, seqLen int) *Tokenizer {
	if seqLen <= 0 {
		seqLen = DefaultSequenceLength
	}
	return &Tokenizer{wordIndex: wordIndex, seqLen: seqLen}
}

// Load reads a JSON word->index vocabulary file exported alongside the
// model.
func Load(path string, seqLen int) (*Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var wordIndex map[string]int
	if err := json.Unmarshal(data, &wordIndex); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(wordIndex) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}

	return New(wordIndex, seqLen), nil
}

// SequenceLength reports the fixed window size of encoded vectors.
func (t *Tokenizer) SequenceLength() int {
	return t.seqLen
}

// Encode maps text to a fixed-length vector: lowercase, strip filter
// characters, split on whitespace, look up each word (unknown words are
// dropped), then left-zero-pad short sequences and front-truncate long
// ones so the window always keeps the most recent tokens.
func (t *Tokenizer) Encode(text string) []int {
	words := t.split(text)

	ids := make([]int, 0, len(words))
	for _, w := range words {
		if id, ok := t.wordIndex[w]; ok && id > 0 {
			ids = append(ids, id)
		}
	}

	if len(ids) > t.seqLen {
		ids = ids[len(ids)-t.seqLen:]
	}

	out := make([]int, t.seqLen)
	copy(out[t.seqLen-len(ids):], ids)
	return out
}

// NonzeroCount reports how many positions of an encoded vector carry a
// real token. Diagnostic only; classification never branches on it.
func (t *Tokenizer) NonzeroCount(vector []int) int {
	n := 0
	for _, id := range vector {
		if id != 0 {
			n++
		}
	}
	return n
}

func (t *Tokenizer) split(text string) []string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(filterChars, r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
