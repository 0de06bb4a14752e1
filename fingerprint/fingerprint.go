// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"crypto/sha512"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/danielhkuo/office-pulse/models"
)

// MaxLength is the longest fingerprint Generate returns
const MaxLength = 50

// Generate derives a de-duplication key from the browser environment.
// It is deterministic for identical inputs and never longer than MaxLength.
func Generate(env models.Environment) string {
	raw := strings.Join([]string{
		env.UserAgent,
		env.ScreenResolution,
		strconv.Itoa(env.TimezoneOffset),
		env.Locale,
		env.Platform,
		env.Canvas,
	}, "|")

	sum := sha512.Sum512([]byte(raw))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])
	if len(encoded) > MaxLength {
		encoded = encoded[:MaxLength]
	}
	return encoded
}
