package worksheet

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeRun = regexp.MustCompile(`[^0-9A-Za-z]+`)

// Slug collapses every run of non-alphanumerics in text to a single dash and
// trims dashes from both ends. An empty result yields fallback.
func Slug(text, fallback string) string {
	slug := strings.Trim(unsafeRun.ReplaceAllString(text, "-"), "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// SingleBase is the file stem for a single page sheet.
func SingleBase(date string, seed int64) string {
	return fmt.Sprintf("worksheet_%s_seed%d", Slug(date, "date"), seed)
}

// MultiBase is the file stem for a multi page sheet.
func MultiBase(start, pages, count int) string {
	return "worksheet_" + Slug(fmt.Sprintf("no%d_pages%d_count%d", start, pages, count), "id")
}

// FileNames returns the question and answer file names for stem in format.
func FileNames(stem string, format Format) (question, answer string) {
	ext := "." + string(format)
	return stem + ext, stem + "_ans" + ext
}
