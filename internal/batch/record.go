package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/projection"
	"github.com/san-kum/floralyze/internal/rosefit"
)

// Record is one named configuration from the tabular interchange source:
// attractor parameters, projection choice, rhodonea fit seed, and any
// previously computed metrics. Records are never mutated in place;
// enrichment produces derived copies.
type Record struct {
	ID             string
	Description    string
	B              float64
	Dt             float64
	Steps          int
	TransientSteps int
	Seed           dynamo.State
	Plane          projection.Plane
	Rotation       projection.Rotation
	Rhodonea       rosefit.Params

	// Optional precomputed metrics; nil when absent from the source.
	EFlower    *float64
	LambdaMax  *float64
	FIReported *float64

	Notes string
}

// SpanEnd is the end of the integration time span implied by the record.
func (r *Record) SpanEnd() float64 { return r.Dt * float64(r.Steps) }

// RowError ties a malformed-input failure to its source row. The row is
// skipped; the rest of the batch proceeds.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// columns is the required input header order-independent field set.
var requiredColumns = []string{
	"id", "b", "dt", "steps", "transient_steps",
	"seed_x", "seed_y", "seed_z",
	"projection_plane", "rotation_axis", "rotation_angle_rad",
	"rhodonea_k", "rhodonea_m", "rhodonea_phi", "rhodonea_a",
}

// LoadCSV reads configuration records from a tabular source. Rows that are
// malformed (missing required field, wrong type, out-of-range value) are
// returned as RowErrors alongside the good rows; one bad row never aborts
// the batch.
func LoadCSV(r io.Reader) ([]*Record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("batch: reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("batch: missing required column %q: %w", name, dynamo.ErrMalformedRecord)
		}
	}

	var (
		records []*Record
		bad     []RowError
	)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: fmt.Errorf("%v: %w", err, dynamo.ErrMalformedRecord)})
			continue
		}

		rec, err := parseRow(row, col)
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}

	return records, bad, nil
}

func parseRow(row []string, col map[string]int) (*Record, error) {
	get := func(name string) (string, error) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", fmt.Errorf("missing field %q: %w", name, dynamo.ErrMalformedRecord)
		}
		return row[i], nil
	}
	getf := func(name string) (float64, error) {
		s, err := get(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q=%q: %v: %w", name, s, err, dynamo.ErrMalformedRecord)
		}
		return v, nil
	}
	geti := func(name string) (int, error) {
		s, err := get(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("field %q=%q: %v: %w", name, s, err, dynamo.ErrMalformedRecord)
		}
		return v, nil
	}
	// Optional fields may be absent or empty, but a present value still
	// has to parse; a typo never silently degrades to "metric missing".
	optf := func(name string) (*float64, error) {
		i, ok := col[name]
		if !ok || i >= len(row) || row[i] == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return nil, fmt.Errorf("field %q=%q: %v: %w", name, row[i], err, dynamo.ErrMalformedRecord)
		}
		return &v, nil
	}
	opts := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rec := &Record{
		Description: opts("description"),
		Notes:       opts("notes"),
	}

	var err error
	if rec.EFlower, err = optf("E_flower"); err != nil {
		return nil, err
	}
	if rec.LambdaMax, err = optf("lambda_max"); err != nil {
		return nil, err
	}
	if rec.FIReported, err = optf("FI_reported"); err != nil {
		return nil, err
	}
	if rec.ID, err = get("id"); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("empty id: %w", dynamo.ErrMalformedRecord)
	}
	if rec.B, err = getf("b"); err != nil {
		return nil, err
	}
	if rec.B <= 0 {
		return nil, fmt.Errorf("b=%g must be positive: %w", rec.B, dynamo.ErrMalformedRecord)
	}
	if rec.Dt, err = getf("dt"); err != nil {
		return nil, err
	}
	if rec.Dt <= 0 {
		return nil, fmt.Errorf("dt=%g must be positive: %w", rec.Dt, dynamo.ErrMalformedRecord)
	}
	if rec.Steps, err = geti("steps"); err != nil {
		return nil, err
	}
	if rec.Steps <= 0 {
		return nil, fmt.Errorf("steps=%d must be positive: %w", rec.Steps, dynamo.ErrMalformedRecord)
	}
	if rec.TransientSteps, err = geti("transient_steps"); err != nil {
		return nil, err
	}
	if rec.TransientSteps < 0 || rec.TransientSteps >= rec.Steps {
		return nil, fmt.Errorf("transient_steps=%d must be in [0, steps): %w", rec.TransientSteps, dynamo.ErrMalformedRecord)
	}

	var sx, sy, sz float64
	if sx, err = getf("seed_x"); err != nil {
		return nil, err
	}
	if sy, err = getf("seed_y"); err != nil {
		return nil, err
	}
	if sz, err = getf("seed_z"); err != nil {
		return nil, err
	}
	rec.Seed = dynamo.State{sx, sy, sz}

	planeStr, err := get("projection_plane")
	if err != nil {
		return nil, err
	}
	if rec.Plane, err = projection.ParsePlane(planeStr); err != nil {
		return nil, fmt.Errorf("%v: %w", err, dynamo.ErrMalformedRecord)
	}
	axisStr, err := get("rotation_axis")
	if err != nil {
		return nil, err
	}
	if rec.Rotation.Axis, err = projection.ParseAxis(axisStr); err != nil {
		return nil, fmt.Errorf("%v: %w", err, dynamo.ErrMalformedRecord)
	}
	if rec.Rotation.Angle, err = getf("rotation_angle_rad"); err != nil {
		return nil, err
	}

	if rec.Rhodonea.K, err = getf("rhodonea_k"); err != nil {
		return nil, err
	}
	if rec.Rhodonea.M, err = getf("rhodonea_m"); err != nil {
		return nil, err
	}
	if rec.Rhodonea.Phi, err = getf("rhodonea_phi"); err != nil {
		return nil, err
	}
	if rec.Rhodonea.A, err = getf("rhodonea_a"); err != nil {
		return nil, err
	}
	if rec.Rhodonea.M == 0 {
		return nil, fmt.Errorf("rhodonea_m must be nonzero: %w", dynamo.ErrMalformedRecord)
	}

	return rec, nil
}
