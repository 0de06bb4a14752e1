// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submission turns a completed feedback form into a row in the
office_experiences table.

# Pipeline

Submitter.Submit runs these steps in order and stops at the first failure:

 1. Fingerprint the browser environment (fingerprint.Generate)
 2. Validate the form (Validate)
 3. Check the per-fingerprint allowance in the local ledger, then claim
    the form nonce so the same form cannot be posted twice
 4. Resolve the client IP: the request's public address, else the IP echo
    service, else "unknown"
 5. Insert the enriched record with Prefer: return=representation
 6. Insert {ip_address, fingerprint} into user_sessions
 7. Record the attempt in the ledger

Steps 6 and 7 are best-effort: they run on a context detached from the
client request, and their failures are logged and counted but never change
the result returned to the caller.

# Results

	res := s.Submit(ctx, submission.Input{...})
	// {success: true, id: "42"}
	// {success: false, error: "HTTP 409: Conflict"}
	// {success: false, error: "province is required; ...", problems: [...]}

Result.Outcome carries accepted, rejected, throttled or failed for the HTTP
layer and metrics; it is not serialized.

# Validation

Validate reports every problem at once rather than the first one. Forms
completed in under models.MinCompletionSeconds are always rejected, even when
every field is filled in.
*/
package submission
