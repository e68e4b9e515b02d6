package codec

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/supershift/gridsync/internal/grid"
)

// hashSeparator joins canonical cell strings before digesting. A bare dot
// keeps the joined form short; collisions between separator and content are
// tolerable because fingerprints only detect change, they are not identity.
const hashSeparator = "."

// Fingerprint computes a stable digest over an ordered cell sequence.
// Same cells in the same order always yield the same digest, across process
// runs and across the encode/decode boundary. The digest is MD5, emitted as
// 32 lower-case hex characters; it is a change detector, not a security
// primitive.
func Fingerprint(cells []grid.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = canonicalString(c)
	}
	sum := md5.Sum([]byte(strings.Join(parts, hashSeparator)))
	return hex.EncodeToString(sum[:])
}

// canonicalString renders one cell in a locale-invariant form.
//
// DateTime-hinted numbers render as the decoded time's nanosecond ordinal
// rather than the floating day-number: float formatting drift between the
// writer and a spreadsheet backend must not change the fingerprint. Plain
// numbers use shortest-form formatting, booleans a fixed lower-case token,
// text is NFC-normalized, and absent cells render as the empty string.
func canonicalString(c grid.Cell) string {
	switch v := c.Value.(type) {
	case grid.Number:
		if c.Format == grid.FormatDateTime {
			t := FromSerial(float64(v))
			if t.IsZero() {
				return "0"
			}
			return strconv.FormatInt(t.UnixNano(), 10)
		}
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case grid.Boolean:
		return strconv.FormatBool(bool(v))
	case grid.Text:
		return norm.NFC.String(string(v))
	default:
		return ""
	}
}
