package school

import (
	"crypto/rand"
	"strings"
)

const accessCodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewParentAccessCode generates a 6 character uppercase code granting the
// parent view. Codes are not checked for uniqueness across students; login
// resolves to the first match.
func NewParentAccessCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = accessCodeCharset[int(b)%len(accessCodeCharset)]
	}
	return string(buf)
}

// MatchAccessCode reports whether the stored code matches the supplied one:
// either verbatim or against its uppercase form. Codes are not normalized on
// write, so both spellings must be accepted.
func MatchAccessCode(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	supplied = strings.TrimSpace(supplied)
	return stored == supplied || stored == strings.ToUpper(supplied)
}
