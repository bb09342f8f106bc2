package services

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"wim-pipeline/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Timestamp layout matching the station's naive ISO-8601 output.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Generator fabricates demo station snapshots on a fixed cadence: one
// five-axle vehicle crossing per cycle, weights randomized per axle
// group, identity drawn from the persisted counter. Snapshots are
// immutable once built; Refresh swaps the whole pointer under the lock.
type Generator struct {
	mu       sync.RWMutex
	counter  *Counter
	interval time.Duration
	log      *zap.Logger
	snap     *models.Snapshot
}

func NewGenerator(counter *Counter, interval time.Duration, log *zap.Logger) *Generator {
	return &Generator{counter: counter, interval: interval, log: log}
}

// Snapshot returns the latest fabricated snapshot, or nil before the
// first Refresh.
func (g *Generator) Snapshot() *models.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snap
}

// Refresh fabricates the next snapshot under a fresh identity.
func (g *Generator) Refresh() error {
	id, err := g.counter.Next()
	if err != nil {
		return err
	}

	snap := fabricate(id, time.Now())

	g.mu.Lock()
	g.snap = snap
	g.mu.Unlock()

	g.log.Info("station snapshot updated", zap.Int64("identity", id))
	return nil
}

// Run regenerates the snapshot immediately and then on every tick until
// the context is cancelled.
func (g *Generator) Run(ctx context.Context) {
	if err := g.Refresh(); err != nil {
		g.log.Error("snapshot refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.log.Info("station generator stopped")
			return
		case <-ticker.C:
			if err := g.Refresh(); err != nil {
				g.log.Error("snapshot refresh failed", zap.Error(err))
			}
		}
	}
}

// axleSpec fixes the per-axle constants of the fabricated vehicle; only
// the wheel weights vary between cycles.
type axleSpec struct {
	id        int64
	groupID   int
	velocity  float64
	distance  float64
	minWheel  int
	maxWheel  int
	patchLenR float64
	patchLenL float64
}

var axleSpecs = [5]axleSpec{
	{id: 12339142, groupID: 0, velocity: 53.5, distance: 0, minWheel: 2000, maxWheel: 2300, patchLenR: 0.16, patchLenL: 0.18},
	{id: 12339143, groupID: 1, velocity: 53.6, distance: 5.59, minWheel: 2400, maxWheel: 2600, patchLenR: 0.13, patchLenL: 0.16},
	{id: 12339144, groupID: 1, velocity: 53.6, distance: 1.27, minWheel: 2400, maxWheel: 2600, patchLenR: 0.14, patchLenL: 0.15},
	{id: 12339145, groupID: 2, velocity: 53.2, distance: 10.43, minWheel: 2400, maxWheel: 2600, patchLenR: 0.15, patchLenL: 0.18},
	{id: 12339146, groupID: 2, velocity: 53.1, distance: 1.21, minWheel: 2400, maxWheel: 2600, patchLenR: 0.17, patchLenL: 0.17},
}

func fabricate(id int64, now time.Time) *models.Snapshot {
	iso := now.Format(timestampLayout)
	unix := now.Unix()

	axles := make([]models.Axle, 0, len(axleSpecs))
	var grossLeft, grossRight int
	for _, spec := range axleSpecs {
		left := spec.minWheel + rand.Intn(spec.maxWheel-spec.minWheel+1)
		right := spec.minWheel + rand.Intn(spec.maxWheel-spec.minWheel+1)
		grossLeft += left
		grossRight += right
		imbalance := 100 * float64(left) / float64(left+right)

		axles = append(axles, models.Axle{
			ID:                 ptr(spec.id),
			GroupID:            ptr(spec.groupID),
			Velocity:           ptr(spec.velocity),
			Weight:             ptr(left + right),
			LeftWheelWeight:    ptr(left),
			RightWheelWeight:   ptr(right),
			LeftRightImbalance: ptr(imbalance),
			Distance:           ptr(spec.distance),
			Track:              ptr(0),
			PatchLengthRight:   ptr(spec.patchLenR),
			PatchLengthLeft:    ptr(spec.patchLenL),
			PatchWidthRight:    ptr(0.0),
			PatchWidthLeft:     ptr(0.0),
			PositionRight:      ptr(0.0),
			PositionLeft:       ptr(0.0),
			SDTireRight:        ptr("N"),
			SDTireLeft:         ptr("N"),
			TireStatusRight:    ptr("N/A"),
			TireStatusLeft:     ptr("N/A"),
		})
	}

	data := &models.VDRData{
		MetrologicalID:   ptr("0x13844B5D"),
		LaneNo:           ptr(1),
		LaneName:         ptr("Lane_1"),
		ErrorFlag:        ptr(0),
		WarningFlag:      ptr(0),
		Direction:        ptr(0),
		MoveStatus:       ptr(-1),
		FrontToFront:     ptr(5.731),
		BackToFront:      ptr(4.478),
		FrontOverhang:    ptr(0.0),
		Duration:         ptr(2.175),
		VehicleLength:    ptr(25.13),
		GrossWeight:      ptr(grossLeft + grossRight),
		LeftWeight:       ptr(grossLeft),
		RightWeight:      ptr(grossRight),
		Velocity:         ptr(53.4),
		WheelBase:        ptr(18.5),
		AxlesCount:       ptr(len(axleSpecs)),
		MassUnit:         ptr("kg"),
		VelocityUnit:     ptr("km/h"),
		DistanceUnit:     ptr("m"),
		Marked:           ptr(false),
		MarkedViolations: ptr(false),
		VehicleID:        ptr(uuid.NewString()),
		StartTime:        ptr(unix),
		StartTimeStr:     ptr(iso),
		Axles:            axles,
	}

	return &models.Snapshot{
		PKMeasurement: ptr(id),
		ID:            ptr(strconv.FormatInt(id, 10)),
		Timestamp:     ptr(iso),
		VDRs: []models.VDR{
			{Source: ptr("WIM DL"), Data: data},
		},
	}
}

func ptr[T any](v T) *T { return &v }
