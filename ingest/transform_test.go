package ingest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wim-pipeline/models"
)

func ptr[T any](v T) *T { return &v }

// testAxle returns a fully populated axle record.
func testAxle(id int64, groupID, weight int) models.Axle {
	return models.Axle{
		ID:                 ptr(id),
		GroupID:            ptr(groupID),
		Velocity:           ptr(53.5),
		Weight:             ptr(weight),
		LeftWheelWeight:    ptr(weight / 2),
		RightWheelWeight:   ptr(weight - weight/2),
		LeftRightImbalance: ptr(50.0),
		Distance:           ptr(1.5),
		Track:              ptr(0),
		PatchLengthRight:   ptr(0.16),
		PatchLengthLeft:    ptr(0.18),
		PatchWidthRight:    ptr(0.0),
		PatchWidthLeft:     ptr(0.0),
		PositionRight:      ptr(0.0),
		PositionLeft:       ptr(0.0),
		SDTireRight:        ptr("N"),
		SDTireLeft:         ptr("N"),
		TireStatusRight:    ptr("N/A"),
		TireStatusLeft:     ptr("N/A"),
	}
}

// testVDR returns a fully populated reading-group record with the given
// axles.
func testVDR(source string, axles ...models.Axle) models.VDR {
	return models.VDR{
		Source: ptr(source),
		Data: &models.VDRData{
			MetrologicalID:   ptr("0x13844B5D"),
			LaneNo:           ptr(1),
			ErrorFlag:        ptr(0),
			WarningFlag:      ptr(0),
			Direction:        ptr(0),
			MoveStatus:       ptr(-1),
			FrontToFront:     ptr(5.731),
			BackToFront:      ptr(4.478),
			FrontOverhang:    ptr(0.0),
			Duration:         ptr(2.175),
			VehicleLength:    ptr(25.13),
			GrossWeight:      ptr(22000),
			LeftWeight:       ptr(11000),
			RightWeight:      ptr(11000),
			Velocity:         ptr(53.4),
			WheelBase:        ptr(18.5),
			AxlesCount:       ptr(len(axles)),
			MassUnit:         ptr("kg"),
			VelocityUnit:     ptr("km/h"),
			DistanceUnit:     ptr("m"),
			Marked:           ptr(false),
			MarkedViolations: ptr(false),
			VehicleID:        ptr("vehicle-1"),
			StartTime:        ptr(int64(1638457729)),
			StartTimeStr:     ptr("2021-12-02T16:08:49.376"),
			Axles:            axles,
		},
	}
}

func testSnapshot(pk int64, id string, vdrs ...models.VDR) *models.Snapshot {
	return &models.Snapshot{
		PKMeasurement: ptr(pk),
		ID:            ptr(id),
		Timestamp:     ptr("2024-01-01T00:00:00"),
		VDRs:          vdrs,
	}
}

func TestTransformCounts(t *testing.T) {
	snap := testSnapshot(7, "7",
		testVDR("WIM DL", testAxle(1, 0, 4600), testAxle(2, 1, 5000)),
		testVDR("WIM DR", testAxle(3, 0, 4800)),
	)

	m, groups, comps, err := Transform(snap)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if m.PK != 7 {
		t.Errorf("measurement PK = %d, want 7", m.PK)
	}
	if m.ExternalID != "7" {
		t.Errorf("measurement ExternalID = %q, want %q", m.ExternalID, "7")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !m.Timestamp.Equal(want) {
		t.Errorf("measurement Timestamp = %v, want %v", m.Timestamp, want)
	}
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if len(comps) != 3 {
		t.Fatalf("len(comps) = %d, want 3", len(comps))
	}
}

func TestTransformFieldCopy(t *testing.T) {
	snap := testSnapshot(7, "7", testVDR("WIM DL", testAxle(12339142, 0, 4600)))

	_, groups, comps, err := Transform(snap)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	g := groups[0]
	if g.Source != "WIM DL" {
		t.Errorf("Source = %q, want %q", g.Source, "WIM DL")
	}
	if g.MeasurementID != 7 {
		t.Errorf("MeasurementID = %d, want 7", g.MeasurementID)
	}
	if g.MetrologicalID != "0x13844B5D" {
		t.Errorf("MetrologicalID = %q, want %q", g.MetrologicalID, "0x13844B5D")
	}
	if g.FrontToFront != 5.731 {
		t.Errorf("FrontToFront = %v, want 5.731", g.FrontToFront)
	}
	if g.GrossWeight != 22000 {
		t.Errorf("GrossWeight = %d, want 22000", g.GrossWeight)
	}
	if g.MoveStatus != -1 {
		t.Errorf("MoveStatus = %d, want -1", g.MoveStatus)
	}
	if g.Marked {
		t.Error("Marked should be false")
	}

	a := comps[0]
	if a.AxleID != 12339142 {
		t.Errorf("AxleID = %d, want 12339142", a.AxleID)
	}
	if a.Weight != 4600 {
		t.Errorf("Weight = %d, want 4600", a.Weight)
	}
	if a.GroupIndex != 0 {
		t.Errorf("GroupIndex = %d, want 0", a.GroupIndex)
	}
	if a.SDTireLeft != "N" {
		t.Errorf("SDTireLeft = %q, want %q", a.SDTireLeft, "N")
	}
}

func TestTransformGroupIndexBinding(t *testing.T) {
	snap := testSnapshot(9, "9",
		testVDR("A", testAxle(1, 0, 4000)),
		testVDR("B", testAxle(2, 0, 5000), testAxle(3, 1, 5200)),
	)

	_, _, comps, err := Transform(snap)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	wantIndexes := []int{0, 1, 1}
	for i, comp := range comps {
		if comp.GroupIndex != wantIndexes[i] {
			t.Errorf("comps[%d].GroupIndex = %d, want %d", i, comp.GroupIndex, wantIndexes[i])
		}
	}
}

func TestTransformMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Snapshot)
		field  string
	}{
		{"missing pkMeasurement", func(s *models.Snapshot) { s.PKMeasurement = nil }, "pkMeasurement"},
		{"missing id", func(s *models.Snapshot) { s.ID = nil }, "id"},
		{"missing timestamp", func(s *models.Snapshot) { s.Timestamp = nil }, "timestamp"},
		{"missing vdRs", func(s *models.Snapshot) { s.VDRs = nil }, "vdRs"},
		{"missing source", func(s *models.Snapshot) { s.VDRs[0].Source = nil }, "source"},
		{"missing data", func(s *models.Snapshot) { s.VDRs[0].Data = nil }, "data"},
		{"missing GrossWeight", func(s *models.Snapshot) { s.VDRs[0].Data.GrossWeight = nil }, "GrossWeight"},
		{"missing axle Weight", func(s *models.Snapshot) { s.VDRs[0].Data.Axles[0].Weight = nil }, "Weight"},
		{"missing axle TireStatusLeft", func(s *models.Snapshot) { s.VDRs[0].Data.Axles[0].TireStatusLeft = nil }, "TireStatusLeft"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := testSnapshot(7, "7", testVDR("WIM DL", testAxle(1, 0, 4600)))
			tc.mutate(snap)

			m, groups, comps, err := Transform(snap)
			if err == nil {
				t.Fatal("expected error for missing field")
			}
			var merr *models.MalformedRecordError
			if !errors.As(err, &merr) {
				t.Fatalf("error type = %T, want *MalformedRecordError", err)
			}
			if merr.Field != tc.field {
				t.Errorf("failed field = %q, want %q", merr.Field, tc.field)
			}
			if m != nil || groups != nil || comps != nil {
				t.Error("no partial output expected on failure")
			}
		})
	}
}

// An absent vdRs key is a malformed record; an explicit empty list is a
// valid snapshot with nothing to flatten.
func TestTransformAbsentVersusEmptyVDRs(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var snap models.Snapshot
		raw := `{"pkMeasurement":7,"id":"7","timestamp":"2024-01-01T00:00:00"}`
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			t.Fatalf("decode payload: %v", err)
		}

		m, groups, comps, err := Transform(&snap)
		var merr *models.MalformedRecordError
		if !errors.As(err, &merr) {
			t.Fatalf("error = %v, want *MalformedRecordError", err)
		}
		if merr.Field != "vdRs" {
			t.Errorf("failed field = %q, want %q", merr.Field, "vdRs")
		}
		if m != nil || groups != nil || comps != nil {
			t.Error("no partial output expected on failure")
		}
	})

	t.Run("empty", func(t *testing.T) {
		var snap models.Snapshot
		raw := `{"pkMeasurement":7,"id":"7","timestamp":"2024-01-01T00:00:00","vdRs":[]}`
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			t.Fatalf("decode payload: %v", err)
		}

		m, groups, comps, err := Transform(&snap)
		if err != nil {
			t.Fatalf("Transform failed: %v", err)
		}
		if m.PK != 7 {
			t.Errorf("measurement PK = %d, want 7", m.PK)
		}
		if len(groups) != 0 || len(comps) != 0 {
			t.Errorf("want no groups or components, got %d / %d", len(groups), len(comps))
		}
	})
}

func TestTransformBadTimestamp(t *testing.T) {
	snap := testSnapshot(7, "7", testVDR("WIM DL", testAxle(1, 0, 4600)))
	snap.Timestamp = ptr("yesterday at noon")

	_, _, _, err := Transform(snap)
	var merr *models.MalformedRecordError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *MalformedRecordError", err)
	}
	if merr.Field != "timestamp" {
		t.Errorf("failed field = %q, want %q", merr.Field, "timestamp")
	}
}

func TestTransformTimestampLayouts(t *testing.T) {
	for _, ts := range []string{
		"2024-01-01T00:00:00",
		"2021-12-02T16:08:49.376",
		"2024-01-01T00:00:00Z",
		"2021-12-02T16:08:49.376+01:00",
	} {
		t.Run(ts, func(t *testing.T) {
			snap := testSnapshot(7, "7", testVDR("WIM DL", testAxle(1, 0, 4600)))
			snap.Timestamp = ptr(ts)
			if _, _, _, err := Transform(snap); err != nil {
				t.Errorf("Transform rejected timestamp %q: %v", ts, err)
			}
		})
	}
}

// Mirrors the wire payload end to end: decode the station JSON, then
// flatten it.
func TestTransformFromJSON(t *testing.T) {
	raw := `{
		"pkMeasurement": 7,
		"id": "7",
		"timestamp": "2024-01-01T00:00:00",
		"vdRs": [{
			"source": "A",
			"data": {
				"MetrologicalID": "0x13844B5D", "LaneNo": 1,
				"ErrorFlag": 0, "WarningFlag": 0, "Direction": 0, "MoveStatus": -1,
				"FrontToFront": 5.731, "BackToFront": 4.478, "FrontOverhang": 0,
				"Duration": 2.175, "VehicleLength": 25.13,
				"GrossWeight": 100, "LeftWeight": 50, "RightWeight": 50,
				"Velocity": 53.4, "WheelBase": 18.5, "AxlesCount": 1,
				"MassUnit": "kg", "VelocityUnit": "km/h", "DistanceUnit": "m",
				"Marked": false, "MarkedViolations": false, "VehicleID": "",
				"StartTime": 1638457729, "StartTimeStr": "2021-12-02T16:08:49.376",
				"Axles": [{
					"ID": 1, "GroupID": 0, "Velocity": 53.5, "Weight": 100,
					"LeftWheelWeight": 50, "RightWheelWeight": 50,
					"LeftRightImbalance": 50.0, "Distance": 0, "Track": 0,
					"PatchLengthRight": 0.16, "PatchLengthLeft": 0.18,
					"PatchWidthRight": 0, "PatchWidthLeft": 0,
					"PositionRight": 0, "PositionLeft": 0,
					"SDTireRight": "N", "SDTireLeft": "N",
					"TireStatusRight": "N/A", "TireStatusLeft": "N/A"
				}]
			}
		}]
	}`

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	m, groups, comps, err := Transform(&snap)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if m.PK != 7 {
		t.Errorf("measurement PK = %d, want 7", m.PK)
	}
	if len(groups) != 1 || groups[0].MeasurementID != 7 {
		t.Errorf("want one reading group bound to measurement 7, got %+v", groups)
	}
	if len(comps) != 1 || comps[0].Weight != 100 {
		t.Errorf("want one component reading with weight 100, got %+v", comps)
	}
}
