// Package naming derives identifiers from a project name and validates it
// as a package name.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/camelcase"
)

// UpperCamel converts a project name to UpperCamelCase: "cool-widget"
// becomes "CoolWidget" and "myXMLParser" becomes "MyXmlParser".
func UpperCamel(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, field := range fields {
		for _, word := range camelcase.Split(field) {
			b.WriteString(capitalize(strings.ToLower(word)))
		}
	}
	return b.String()
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// PackageName returns the package part of a "name@version" dependency.
func PackageName(dependency string) string {
	if i := strings.LastIndex(dependency, "@"); i > 0 {
		return dependency[:i]
	}
	return dependency
}
