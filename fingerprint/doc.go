// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint derives a heuristic device key from browser signals.

The key mixes user agent, screen resolution, timezone offset, locale,
platform and a canvas-rendering snapshot:

	fp := fingerprint.Generate(models.Environment{
		UserAgent:        r.UserAgent(),
		ScreenResolution: "1920x1080",
		TimezoneOffset:   -345,
		Locale:           "ne-NP",
		Platform:         "Win32",
		Canvas:           "data:image/png;base64,...",
	})

Components are joined with "|", hashed with SHA-512 and encoded as
unpadded URL-safe base64, truncated to 50 characters.

The result is a de-duplication signal for abuse tracking. It is not a
credential and two devices can share one.
*/
package fingerprint
