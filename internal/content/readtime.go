package content

import "strings"

const WordsPerMinute = 200

// WordCount counts whitespace-delimited words.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// ReadingTime returns the estimated minutes to read body, rounded up, never
// less than one.
func ReadingTime(body string) int {
	words := WordCount(body)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
