// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package supabase is a minimal client for the Supabase REST (PostgREST) API.

Only inserts are supported:

	c := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, 10*time.Second)
	id, err := c.InsertReturningID(ctx, supabase.TableOfficeExperiences, record)
	_, err = c.Insert(ctx, supabase.TableUserSessions, session, supabase.ReturnMinimal)

Every request carries the apikey and Authorization: Bearer headers with the
same key, Content-Type: application/json, and the Prefer header.

A non-2xx response becomes *HTTPError whose message reads
"HTTP <status>: <statusText>". Nothing is retried.
*/
package supabase
