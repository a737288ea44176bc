package tracker

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMonetary renders v with at most two decimals, trailing zeros trimmed
// and "." as separator: 1000.40 -> "1000.4", 45763756.0 -> "45763756".
// Panics on NaN or infinity.
func FormatMonetary(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic("tracker: monetary value must be finite")
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsZero() {
		return "0"
	}
	return d.String()
}

// FormatUnixTimestamp returns whole seconds since the Unix epoch.
func FormatUnixTimestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// FormatLocalDateTime formats t as "2006-01-02 15:04:05" on its own clock,
// without converting time zones.
func FormatLocalDateTime(t time.Time) string {
	return t.Format(time.DateTime)
}

// PercentEncode escapes s for use as a query component. Spaces become %20.
func PercentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SHA1Hex returns the lowercase hex SHA-1 digest of b.
func SHA1Hex(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// MD5Hex returns the lowercase hex MD5 digest of b.
func MD5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeJSON marshals v without HTML escaping and without the trailing newline.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
