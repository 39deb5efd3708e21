package subtitles

import "strings"

// ChunkSentence splits a sentence into cues of at most maxWords words. Times
// are interpolated linearly by word position inside the sentence span, so
// every word lands in exactly one cue and boundaries never move backwards.
// A sentence within the limit passes through unchanged.
func ChunkSentence(sentence SentenceTiming, maxWords int) ([]Cue, error) {
	if maxWords < 1 {
		return nil, &ConfigError{Field: "max_words", Value: maxWords}
	}
	words := strings.Fields(sentence.Text)
	wordCount := len(words)
	if wordCount == 0 {
		return nil, nil
	}
	if wordCount <= maxWords {
		return []Cue{{Text: sentence.Text, Start: sentence.Start, End: sentence.End}}, nil
	}

	numParts := (wordCount + maxWords - 1) / maxWords
	span := sentence.End - sentence.Start
	cues := make([]Cue, 0, numParts)
	for part := 0; part < numParts; part++ {
		// floor(part * wordCount/numParts) computed in integers so the
		// real-valued quota never drifts across a word boundary.
		startWord := part * wordCount / numParts
		endWord := min((part+1)*wordCount/numParts, wordCount)
		cues = append(cues, Cue{
			Text:  strings.Join(words[startWord:endWord], " "),
			Start: interpolate(sentence.Start, span, startWord, wordCount, sentence.End),
			End:   interpolate(sentence.Start, span, endWord, wordCount, sentence.End),
		})
	}
	return cues, nil
}

// ChunkSentences chunks every sentence in order.
func ChunkSentences(sentences []SentenceTiming, maxWords int) ([]Cue, error) {
	if maxWords < 1 {
		return nil, &ConfigError{Field: "max_words", Value: maxWords}
	}
	var cues []Cue
	for _, sentence := range sentences {
		parts, err := ChunkSentence(sentence, maxWords)
		if err != nil {
			return nil, err
		}
		cues = append(cues, parts...)
	}
	return cues, nil
}

func interpolate(start, span float64, word, wordCount int, end float64) float64 {
	switch word {
	case 0:
		return start
	case wordCount:
		return end
	}
	return start + float64(word)*span/float64(wordCount)
}
