// Package paginate splits book text into a fixed number of word-bounded pages.
//
// Pagination is a pure function of (text, totalPages, pageIndex): the full
// text is split on whitespace, every page holds ceil(tokens/totalPages) words,
// and the last page keeps whatever remains.
package paginate

import "strings"

// WordsPerPage returns how many whitespace-delimited tokens each page of a
// book holds. A non-positive totalPages is treated as a single page.
func WordsPerPage(wordCount, totalPages int) int {
	if totalPages <= 0 {
		totalPages = 1
	}
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + totalPages - 1) / totalPages
}

// Page returns the content of the 0-based page index. Out-of-range indexes
// and empty text yield an empty string rather than an error: the reader view
// renders whatever it is given.
func Page(fullText string, totalPages, pageIndex int) string {
	if pageIndex < 0 {
		return ""
	}

	words := strings.Fields(fullText)
	perPage := WordsPerPage(len(words), totalPages)
	if perPage == 0 {
		return ""
	}

	start := pageIndex * perPage
	if start >= len(words) {
		return ""
	}
	end := start + perPage
	if end > len(words) {
		end = len(words)
	}

	return strings.Join(words[start:end], " ")
}

// PageCount normalizes a requested page count: anything below one is a
// single page.
func PageCount(totalPages int) int {
	if totalPages <= 0 {
		return 1
	}
	return totalPages
}
