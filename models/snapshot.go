package models

import "fmt"

// MalformedRecordError reports a payload that is missing a required
// field or carries one of the wrong type.
type MalformedRecordError struct {
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: missing or invalid field %q", e.Field)
}

// Wire types for the station's /data payload. Scalar fields the pipeline
// persists are pointers so the transformer can tell an absent key from a
// zero value; the station fills every field when fabricating a snapshot.

type Snapshot struct {
	PKMeasurement *int64  `json:"pkMeasurement"`
	ID            *string `json:"id"`
	Timestamp     *string `json:"timestamp"`
	VDRs          []VDR   `json:"vdRs"`
}

// Identity returns the snapshot identity used for de-duplication, or ""
// when the payload carries none.
func (s *Snapshot) Identity() string {
	if s == nil || s.ID == nil {
		return ""
	}
	return *s.ID
}

type VDR struct {
	Source *string  `json:"source"`
	Data   *VDRData `json:"data"`
}

type VDRData struct {
	MetrologicalID   *string  `json:"MetrologicalID"`
	LaneNo           *int     `json:"LaneNo"`
	LaneName         *string  `json:"LaneName,omitempty"`
	ErrorFlag        *int     `json:"ErrorFlag"`
	WarningFlag      *int     `json:"WarningFlag"`
	Direction        *int     `json:"Direction"`
	MoveStatus       *int     `json:"MoveStatus"`
	FrontToFront     *float64 `json:"FrontToFront"`
	BackToFront      *float64 `json:"BackToFront"`
	FrontOverhang    *float64 `json:"FrontOverhang"`
	Duration         *float64 `json:"Duration"`
	VehicleLength    *float64 `json:"VehicleLength"`
	GrossWeight      *int     `json:"GrossWeight"`
	LeftWeight       *int     `json:"LeftWeight"`
	RightWeight      *int     `json:"RightWeight"`
	Velocity         *float64 `json:"Velocity"`
	WheelBase        *float64 `json:"WheelBase"`
	AxlesCount       *int     `json:"AxlesCount"`
	MassUnit         *string  `json:"MassUnit"`
	VelocityUnit     *string  `json:"VelocityUnit"`
	DistanceUnit     *string  `json:"DistanceUnit"`
	Marked           *bool    `json:"Marked"`
	MarkedViolations *bool    `json:"MarkedViolations"`
	VehicleID        *string  `json:"VehicleID"`
	StartTime        *int64   `json:"StartTime"`
	StartTimeStr     *string  `json:"StartTimeStr"`
	Axles            []Axle   `json:"Axles"`
}

type Axle struct {
	ID                 *int64   `json:"ID"`
	GroupID            *int     `json:"GroupID"`
	Velocity           *float64 `json:"Velocity"`
	Weight             *int     `json:"Weight"`
	LeftWheelWeight    *int     `json:"LeftWheelWeight"`
	RightWheelWeight   *int     `json:"RightWheelWeight"`
	LeftRightImbalance *float64 `json:"LeftRightImbalance"`
	Distance           *float64 `json:"Distance"`
	Track              *int     `json:"Track"`
	PatchLengthRight   *float64 `json:"PatchLengthRight"`
	PatchLengthLeft    *float64 `json:"PatchLengthLeft"`
	PatchWidthRight    *float64 `json:"PatchWidthRight"`
	PatchWidthLeft     *float64 `json:"PatchWidthLeft"`
	PositionRight      *float64 `json:"PositionRight"`
	PositionLeft       *float64 `json:"PositionLeft"`
	SDTireRight        *string  `json:"SDTireRight"`
	SDTireLeft         *string  `json:"SDTireLeft"`
	TireStatusRight    *string  `json:"TireStatusRight"`
	TireStatusLeft     *string  `json:"TireStatusLeft"`
}
