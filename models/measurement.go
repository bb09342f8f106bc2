package models

import "time"

// Measurement is one vehicle-crossing event. The primary key comes from
// the station payload, not from the database. Rows are insert-only.
type Measurement struct {
	PK         int64     `gorm:"column:pk_measurement;primaryKey;autoIncrement:false" json:"pk_measurement"`
	ExternalID string    `gorm:"column:external_id" json:"external_id"`
	Timestamp  time.Time `gorm:"column:ts" json:"ts"`
}

func (Measurement) TableName() string { return "measurements" }

// ReadingGroup is one device's report (source term: VDR) for a
// Measurement. The primary key is database-generated.
type ReadingGroup struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MeasurementID int64  `gorm:"column:measurement_id;index" json:"measurement_id"`
	Source        string `gorm:"column:source" json:"source"`

	MetrologicalID   string  `gorm:"column:metrological_id" json:"metrological_id"`
	LaneNo           int     `gorm:"column:lane_no" json:"lane_no"`
	ErrorFlag        int     `gorm:"column:error_flag" json:"error_flag"`
	WarningFlag      int     `gorm:"column:warning_flag" json:"warning_flag"`
	Direction        int     `gorm:"column:direction" json:"direction"`
	MoveStatus       int     `gorm:"column:move_status" json:"move_status"`
	FrontToFront     float64 `gorm:"column:front_to_front" json:"front_to_front"`
	BackToFront      float64 `gorm:"column:back_to_front" json:"back_to_front"`
	FrontOverhang    float64 `gorm:"column:front_overhang" json:"front_overhang"`
	Duration         float64 `gorm:"column:duration" json:"duration"`
	VehicleLength    float64 `gorm:"column:vehicle_length" json:"vehicle_length"`
	GrossWeight      int     `gorm:"column:gross_weight" json:"gross_weight"`
	LeftWeight       int     `gorm:"column:left_weight" json:"left_weight"`
	RightWeight      int     `gorm:"column:right_weight" json:"right_weight"`
	Velocity         float64 `gorm:"column:velocity" json:"velocity"`
	WheelBase        float64 `gorm:"column:wheel_base" json:"wheel_base"`
	AxlesCount       int     `gorm:"column:axles_count" json:"axles_count"`
	MassUnit         string  `gorm:"column:mass_unit" json:"mass_unit"`
	VelocityUnit     string  `gorm:"column:velocity_unit" json:"velocity_unit"`
	DistanceUnit     string  `gorm:"column:distance_unit" json:"distance_unit"`
	Marked           bool    `gorm:"column:marked" json:"marked"`
	MarkedViolations bool    `gorm:"column:marked_violations" json:"marked_violations"`
	VehicleID        string  `gorm:"column:vehicle_id" json:"vehicle_id"`
	StartTime        int64   `gorm:"column:start_time" json:"start_time"`
	StartTimeStr     string  `gorm:"column:start_time_str" json:"start_time_str"`
}

func (ReadingGroup) TableName() string { return "reading_groups" }

// ComponentReading is one axle within a ReadingGroup. GroupIndex binds the
// reading to the vdRs entry it came from until the group's generated key is
// known at insert time; it is never persisted.
type ComponentReading struct {
	ID             int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ReadingGroupID int64 `gorm:"column:reading_group_id;index" json:"reading_group_id"`
	GroupIndex     int   `gorm:"-" json:"-"`

	AxleID             int64   `gorm:"column:axle_id" json:"axle_id"`
	GroupID            int     `gorm:"column:group_id" json:"group_id"`
	Velocity           float64 `gorm:"column:velocity" json:"velocity"`
	Weight             int     `gorm:"column:weight" json:"weight"`
	LeftWheelWeight    int     `gorm:"column:left_wheel_weight" json:"left_wheel_weight"`
	RightWheelWeight   int     `gorm:"column:right_wheel_weight" json:"right_wheel_weight"`
	LeftRightImbalance float64 `gorm:"column:left_right_imbalance" json:"left_right_imbalance"`
	Distance           float64 `gorm:"column:distance" json:"distance"`
	Track              int     `gorm:"column:track" json:"track"`
	PatchLengthRight   float64 `gorm:"column:patch_length_right" json:"patch_length_right"`
	PatchLengthLeft    float64 `gorm:"column:patch_length_left" json:"patch_length_left"`
	PatchWidthRight    float64 `gorm:"column:patch_width_right" json:"patch_width_right"`
	PatchWidthLeft     float64 `gorm:"column:patch_width_left" json:"patch_width_left"`
	PositionRight      float64 `gorm:"column:position_right" json:"position_right"`
	PositionLeft       float64 `gorm:"column:position_left" json:"position_left"`
	SDTireRight        string  `gorm:"column:sd_tire_right" json:"sd_tire_right"`
	SDTireLeft         string  `gorm:"column:sd_tire_left" json:"sd_tire_left"`
	TireStatusRight    string  `gorm:"column:tire_status_right" json:"tire_status_right"`
	TireStatusLeft     string  `gorm:"column:tire_status_left" json:"tire_status_left"`
}

func (ComponentReading) TableName() string { return "component_readings" }
