// Package batch implements the parameter-interchange surface: CSV
// configuration records in, enriched CSV and a structured JSON document
// out, with the numerical pipeline optionally recomputed per record.
//
// Failures are always scoped to a single configuration. A malformed row, a
// diverged integration, or a non-converged fit marks that row and the rest
// of the batch proceeds.
package batch
