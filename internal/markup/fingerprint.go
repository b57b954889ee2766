package markup

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint returns a stable content hash of a document source. Frontmatter
// and body are hashed separately so that newline style in the delimiter lines
// does not change the result.
func Fingerprint(src []byte) string {
	fm, body, had, err := splitFrontmatter(src)
	if err != nil || !had {
		return mdfp.CalculateFingerprintFromParts("", string(src))
	}
	frontmatter := strings.TrimSuffix(strings.ReplaceAll(string(fm), "\r\n", "\n"), "\n")
	return mdfp.CalculateFingerprintFromParts(frontmatter, string(body))
}
