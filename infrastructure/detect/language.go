// Package detect labels input documents with their programming language.
package detect

import (
	enry "github.com/go-enry/go-enry/v2"

	"github.com/diffdochq/diffdoc/domain/source"
)

// Language returns the programming language of the given file, or "" when
// it cannot be determined. Detection uses the filename first, then the
// content.
func Language(filename, content string) string {
	return enry.GetLanguage(filename, []byte(content))
}

// Label returns a copy of the document tagged with its detected language.
// Documents whose language cannot be determined are returned unchanged.
func Label(doc source.Document) source.Document {
	lang := Language(doc.Name(), doc.Text())
	if lang == "" {
		return doc
	}
	return doc.WithLanguage(lang)
}
