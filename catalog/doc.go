// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog holds the option lists the feedback form offers.

The catalog is a YAML document with three sections:

	office_types:
	  - id: ward_office
	    label: Ward Office
	services:
	  - id: citizenship
	    label: Citizenship Certificate
	  - id: other
	    label: Other
	moods:
	  - id: satisfied
	    label: Satisfied

A default is embedded in the binary; Load(path) replaces it with a file.
Services must contain "other", whose selection requires a free-text
description on the form.

The same catalog is served at GET /catalog and used by submission.Validate,
so the widget can only offer values the validator accepts.
*/
package catalog
