package models

// Outline is the structured chapter/lecture breakdown extracted from a
// course's raw HTML by the content normalizer.
type Outline struct {
	Sections []OutlineSection `json:"sections"`
}

// OutlineSection is one chapter of a course outline
type OutlineSection struct {
	Title    string           `json:"title"`
	Duration string           `json:"duration"`
	Lectures []OutlineLecture `json:"lectures"`
}

// OutlineLecture is one lecture within a section
type OutlineLecture struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
}
