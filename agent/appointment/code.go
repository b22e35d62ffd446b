package appointment

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	codePrefixLen = 3
	codeSuffixLen = 8
	codePad       = 'X'
)

// CodeGenerator yields the identifier assigned to a record when it is stored.
type CodeGenerator func(name string) string

// GenerateCode returns the first three letters of name in upper case, padded
// with X when shorter, a dash and eight random hex characters.
// Uniqueness against the store is not checked.
func GenerateCode(name string) string {
	prefix := make([]rune, 0, codePrefixLen)
	for _, r := range strings.TrimSpace(name) {
		if len(prefix) == codePrefixLen {
			break
		}
		if unicode.IsSpace(r) {
			continue
		}
		prefix = append(prefix, unicode.ToUpper(r))
	}
	for len(prefix) < codePrefixLen {
		prefix = append(prefix, codePad)
	}

	id := uuid.New()
	suffix := strings.ReplaceAll(id.String(), "-", "")[:codeSuffixLen]
	return string(prefix) + "-" + suffix
}
