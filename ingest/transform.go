package ingest

import (
	"fmt"
	"time"

	"wim-pipeline/models"
)

// Timestamps arrive as ISO-8601, with or without fractional seconds or a
// zone offset. Stations commonly emit naive local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// fieldReader collects the first missing-field failure so a record can
// be flattened without an error check per field.
type fieldReader struct {
	err error
}

func (r *fieldReader) fail(field string) {
	if r.err == nil {
		r.err = &models.MalformedRecordError{Field: field}
	}
}

func str(r *fieldReader, field string, v *string) string   { return read(r, field, v) }
func i(r *fieldReader, field string, v *int) int           { return read(r, field, v) }
func i64(r *fieldReader, field string, v *int64) int64     { return read(r, field, v) }
func f64(r *fieldReader, field string, v *float64) float64 { return read(r, field, v) }
func b(r *fieldReader, field string, v *bool) bool         { return read(r, field, v) }

func read[T any](r *fieldReader, field string, v *T) T {
	if v == nil {
		r.fail(field)
		var zero T
		return zero
	}
	return *v
}

// Transform flattens one raw snapshot into the normalized measurement,
// reading-group and component-reading records. It is pure: no I/O, no
// shared state, deterministic for identical input. Each component
// carries the index of its owning group; the gateway resolves the
// generated key at insert time. Transform never produces partial output
// alongside an error.
func Transform(snap *models.Snapshot) (*models.Measurement, []models.ReadingGroup, []models.ComponentReading, error) {
	if snap == nil {
		return nil, nil, nil, &models.MalformedRecordError{Field: "pkMeasurement"}
	}

	r := &fieldReader{}
	m := &models.Measurement{
		PK:         i64(r, "pkMeasurement", snap.PKMeasurement),
		ExternalID: str(r, "id", snap.ID),
	}
	rawTS := str(r, "timestamp", snap.Timestamp)
	// A nil slice means the vdRs key was absent from the payload; an
	// explicit empty list decodes non-nil and passes.
	if snap.VDRs == nil {
		r.fail("vdRs")
	}
	if r.err != nil {
		return nil, nil, nil, r.err
	}

	ts, err := parseTimestamp(rawTS)
	if err != nil {
		return nil, nil, nil, &models.MalformedRecordError{Field: "timestamp"}
	}
	m.Timestamp = ts

	var groups []models.ReadingGroup
	var comps []models.ComponentReading

	for gi, vdr := range snap.VDRs {
		source := str(r, "source", vdr.Source)
		if vdr.Data == nil {
			r.fail("data")
		}
		if r.err != nil {
			return nil, nil, nil, r.err
		}
		d := vdr.Data

		group := models.ReadingGroup{
			MeasurementID:    m.PK,
			Source:           source,
			MetrologicalID:   str(r, "MetrologicalID", d.MetrologicalID),
			LaneNo:           i(r, "LaneNo", d.LaneNo),
			ErrorFlag:        i(r, "ErrorFlag", d.ErrorFlag),
			WarningFlag:      i(r, "WarningFlag", d.WarningFlag),
			Direction:        i(r, "Direction", d.Direction),
			MoveStatus:       i(r, "MoveStatus", d.MoveStatus),
			FrontToFront:     f64(r, "FrontToFront", d.FrontToFront),
			BackToFront:      f64(r, "BackToFront", d.BackToFront),
			FrontOverhang:    f64(r, "FrontOverhang", d.FrontOverhang),
			Duration:         f64(r, "Duration", d.Duration),
			VehicleLength:    f64(r, "VehicleLength", d.VehicleLength),
			GrossWeight:      i(r, "GrossWeight", d.GrossWeight),
			LeftWeight:       i(r, "LeftWeight", d.LeftWeight),
			RightWeight:      i(r, "RightWeight", d.RightWeight),
			Velocity:         f64(r, "Velocity", d.Velocity),
			WheelBase:        f64(r, "WheelBase", d.WheelBase),
			AxlesCount:       i(r, "AxlesCount", d.AxlesCount),
			MassUnit:         str(r, "MassUnit", d.MassUnit),
			VelocityUnit:     str(r, "VelocityUnit", d.VelocityUnit),
			DistanceUnit:     str(r, "DistanceUnit", d.DistanceUnit),
			Marked:           b(r, "Marked", d.Marked),
			MarkedViolations: b(r, "MarkedViolations", d.MarkedViolations),
			VehicleID:        str(r, "VehicleID", d.VehicleID),
			StartTime:        i64(r, "StartTime", d.StartTime),
			StartTimeStr:     str(r, "StartTimeStr", d.StartTimeStr),
		}
		if r.err != nil {
			return nil, nil, nil, r.err
		}
		groups = append(groups, group)

		for _, axle := range d.Axles {
			comp := models.ComponentReading{
				GroupIndex:         gi,
				AxleID:             i64(r, "ID", axle.ID),
				GroupID:            i(r, "GroupID", axle.GroupID),
				Velocity:           f64(r, "Velocity", axle.Velocity),
				Weight:             i(r, "Weight", axle.Weight),
				LeftWheelWeight:    i(r, "LeftWheelWeight", axle.LeftWheelWeight),
				RightWheelWeight:   i(r, "RightWheelWeight", axle.RightWheelWeight),
				LeftRightImbalance: f64(r, "LeftRightImbalance", axle.LeftRightImbalance),
				Distance:           f64(r, "Distance", axle.Distance),
				Track:              i(r, "Track", axle.Track),
				PatchLengthRight:   f64(r, "PatchLengthRight", axle.PatchLengthRight),
				PatchLengthLeft:    f64(r, "PatchLengthLeft", axle.PatchLengthLeft),
				PatchWidthRight:    f64(r, "PatchWidthRight", axle.PatchWidthRight),
				PatchWidthLeft:     f64(r, "PatchWidthLeft", axle.PatchWidthLeft),
				PositionRight:      f64(r, "PositionRight", axle.PositionRight),
				PositionLeft:       f64(r, "PositionLeft", axle.PositionLeft),
				SDTireRight:        str(r, "SDTireRight", axle.SDTireRight),
				SDTireLeft:         str(r, "SDTireLeft", axle.SDTireLeft),
				TireStatusRight:    str(r, "TireStatusRight", axle.TireStatusRight),
				TireStatusLeft:     str(r, "TireStatusLeft", axle.TireStatusLeft),
			}
			if r.err != nil {
				return nil, nil, nil, r.err
			}
			comps = append(comps, comp)
		}
	}

	return m, groups, comps, nil
}
