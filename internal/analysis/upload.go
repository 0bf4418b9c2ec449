package analysis

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// DefaultFilename names uploads that arrive without a file name.
const DefaultFilename = "Uploaded Paper"

// Upload is a research paper submitted for analysis.
type Upload struct {
	Filename string
	Industry string
	Content  []byte
}

// Size returns the content length in bytes.
func (u Upload) Size() int64 { return int64(len(u.Content)) }

// Normalized returns a copy with a clean base file name and a title-cased
// industry hint.
func (u Upload) Normalized() Upload {
	name := strings.TrimSpace(u.Filename)
	if name != "" {
		name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	}
	if name == "" || name == "." || name == "/" {
		name = DefaultFilename
	}
	u.Filename = name
	u.Industry = NormalizeIndustry(u.Industry)
	return u
}

// Validate rejects uploads without content.
func (u Upload) Validate() error {
	if len(u.Content) == 0 {
		return ferrors.ValidationError("uploaded file is empty").
			WithContext("filename", u.Filename).Build()
	}
	return nil
}

// NormalizeIndustry collapses whitespace and title-cases the industry hint,
// e.g. "  health   care " becomes "Health Care".
func NormalizeIndustry(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(fields, " "))
}
