package services

import "strings"

// defaultSeparators are tried in priority order: paragraph break, line
// break, sentence end, word boundary, and finally a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter splits text into overlapping chunks, preferring the
// highest-priority separator that keeps pieces under the target size so
// words and sentences are not cut mid-way.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveSplitter creates a splitter with the given target chunk
// size and overlap, both in characters.
func NewRecursiveSplitter(chunkSize, overlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &RecursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split returns the chunks for text. Whitespace-only input yields none.
func (s *RecursiveSplitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	sep, rest := pickSeparator(text, separators)
	if sep == "" {
		return s.hardCut(text)
	}

	parts := strings.Split(text, sep)
	var out []string
	var fitting []string
	for _, part := range parts {
		if len(part) > s.chunkSize {
			// Oversized piece: flush what fits, recurse with the
			// lower-priority separators
			out = append(out, s.merge(fitting, sep)...)
			fitting = nil
			out = append(out, s.split(part, rest)...)
			continue
		}
		fitting = append(fitting, part)
	}
	return append(out, s.merge(fitting, sep)...)
}

func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// hardCut is the last resort for text with no usable separator: fixed
// windows with character overlap, rune-safe.
func (s *RecursiveSplitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// merge packs split parts back into chunks up to the target size,
// carrying tail parts of the previous chunk forward as overlap.
func (s *RecursiveSplitter) merge(parts []string, sep string) []string {
	sepLen := len(sep)
	var chunks []string
	var cur []string
	curLen := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(cur, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, part := range parts {
		add := len(part)
		if len(cur) > 0 {
			add += sepLen
		}
		if curLen+add > s.chunkSize && len(cur) > 0 {
			flush()
			// Keep dropping from the front until the retained tail fits
			// the overlap budget and leaves room for the next part
			for len(cur) > 0 && (curLen > s.overlap || curLen+len(part)+sepLen > s.chunkSize) {
				curLen -= len(cur[0])
				if len(cur) > 1 {
					curLen -= sepLen
				}
				cur = cur[1:]
			}
			if len(cur) == 0 {
				curLen = 0
			}
		}
		if len(cur) > 0 {
			curLen += sepLen
		}
		cur = append(cur, part)
		curLen += len(part)
	}
	flush()
	return chunks
}
