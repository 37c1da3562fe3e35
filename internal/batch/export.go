package batch

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/floralyze/internal/rosefit"
)

// enrichedHeader is the input schema plus the three derived columns. The
// extra error column is the explicit per-row failure marker; failed rows
// never carry fabricated numbers.
var enrichedHeader = []string{
	"id", "description", "b", "dt", "steps", "transient_steps",
	"seed_x", "seed_y", "seed_z",
	"projection_plane", "rotation_axis", "rotation_angle_rad",
	"rhodonea_k", "rhodonea_m", "rhodonea_phi", "rhodonea_a",
	"E_flower", "lambda_max", "FI_reported", "notes",
	"FI_computed", "FI_delta", "error",
}

// WriteEnrichedCSV emits the enriched table: every input row with
// FI_computed and FI_delta appended. In recompute mode the metric and
// rhodonea columns carry the freshly computed values (a derived record;
// the input is untouched).
func WriteEnrichedCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(enrichedHeader); err != nil {
		return err
	}

	for i := range results {
		res := &results[i]
		rec := res.Record

		rho := rec.Rhodonea
		eFlower := rec.EFlower
		lambda := rec.LambdaMax
		if res.Computed != nil {
			rho = res.Computed.Fit
			eFlower = &res.Computed.EFlower
			lambda = &res.Computed.Lambda
		}

		row := []string{
			rec.ID,
			rec.Description,
			ff(rec.B),
			ff(rec.Dt),
			strconv.Itoa(rec.Steps),
			strconv.Itoa(rec.TransientSteps),
			ff(rec.Seed[0]),
			ff(rec.Seed[1]),
			ff(rec.Seed[2]),
			rec.Plane.String(),
			rec.Rotation.Axis.String(),
			ff(rec.Rotation.Angle),
			ff(rho.K),
			ff(rho.M),
			ff(rho.Phi),
			ff(rho.A),
			fopt(eFlower),
			fopt(lambda),
			fopt(rec.FIReported),
			rec.Notes,
			fnan(res.FI),
			fnan(res.FIDelta),
			rowMarker(res),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func rowMarker(res *Result) string {
	if res.Err != nil {
		return res.ErrKind()
	}
	if res.Invalid {
		return "invalid_metric"
	}
	return ""
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func fopt(v *float64) string {
	if v == nil {
		return ""
	}
	return ff(*v)
}

func fnan(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return ff(v)
}

// Document is the structured export consumed by the visualization client.
// Field names and nesting are a fixed external contract.
type Document struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Model       ModelDoc      `json:"model"`
	Projection  ProjectionDoc `json:"projection"`
	Rhodonea    RhodoneaDoc   `json:"rhodonea"`
	Metrics     MetricsDoc    `json:"metrics"`
	Notes       string        `json:"notes"`
}

type ModelDoc struct {
	B              float64    `json:"b"`
	Dt             float64    `json:"dt"`
	Steps          int        `json:"steps"`
	TransientSteps int        `json:"transient_steps"`
	Seed           [3]float64 `json:"seed"`
}

type ProjectionDoc struct {
	Plane    string      `json:"plane"`
	Rotation RotationDoc `json:"rotation"`
}

type RotationDoc struct {
	Axis     string  `json:"axis"`
	AngleRad float64 `json:"angle_rad"`
}

type RhodoneaDoc struct {
	K       float64 `json:"k"`
	M       float64 `json:"m"`
	Phi     float64 `json:"phi"`
	A       float64 `json:"a"`
	Formula string  `json:"formula"`
}

type MetricsDoc struct {
	EFlower    *float64 `json:"E_flower"`
	LambdaMax  *float64 `json:"lambda_max"`
	FIComputed *float64 `json:"FI_computed"`
	FIReported *float64 `json:"FI_reported"`
}

// BuildDocuments converts successful results to export documents. Failed
// configurations are omitted; the caller logs them per row.
func BuildDocuments(results []Result) []Document {
	docs := make([]Document, 0, len(results))
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		rec := res.Record

		rho := rec.Rhodonea
		eFlower := rec.EFlower
		lambda := rec.LambdaMax
		if res.Computed != nil {
			rho = res.Computed.Fit
			eFlower = &res.Computed.EFlower
			lambda = &res.Computed.Lambda
		}

		var fi *float64
		if !math.IsNaN(res.FI) {
			v := res.FI
			fi = &v
		}

		docs = append(docs, Document{
			ID:          rec.ID,
			Description: rec.Description,
			Model: ModelDoc{
				B:              rec.B,
				Dt:             rec.Dt,
				Steps:          rec.Steps,
				TransientSteps: rec.TransientSteps,
				Seed:           [3]float64{rec.Seed[0], rec.Seed[1], rec.Seed[2]},
			},
			Projection: ProjectionDoc{
				Plane: rec.Plane.String(),
				Rotation: RotationDoc{
					Axis:     rec.Rotation.Axis.String(),
					AngleRad: rec.Rotation.Angle,
				},
			},
			Rhodonea: RhodoneaDoc{
				K:       rho.K,
				M:       rho.M,
				Phi:     rho.Phi,
				A:       rho.A,
				Formula: rosefit.Formula,
			},
			Metrics: MetricsDoc{
				EFlower:    eFlower,
				LambdaMax:  lambda,
				FIComputed: fi,
				FIReported: rec.FIReported,
			},
			Notes: rec.Notes,
		})
	}
	return docs
}

// WriteDocuments emits the JSON export document array.
func WriteDocuments(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
