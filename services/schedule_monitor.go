package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// Broadcaster publishes content events to connected dashboards.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// Pruner drops state that went stale before now and reports how much.
type Pruner interface {
	Prune(now time.Time) int
}

// ScheduleSnapshot lists the promos and posters live at a point in time.
type ScheduleSnapshot struct {
	At        time.Time `json:"at"`
	PromoIDs  []uint    `json:"promo_ids"`
	PosterIDs []uint    `json:"poster_ids"`
}

func (s ScheduleSnapshot) equal(o ScheduleSnapshot) bool {
	return equalIDs(s.PromoIDs, o.PromoIDs) && equalIDs(s.PosterIDs, o.PosterIDs)
}

// ScheduleMonitor polls promo and poster windows and broadcasts when the
// live set changes, e.g. when a promo starts or a poster expires.
type ScheduleMonitor struct {
	DB       *gorm.DB
	Hub      Broadcaster
	Event    string
	Interval time.Duration
	Now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	last     *ScheduleSnapshot

	pruneMu sync.Mutex
	pruners []Pruner
}

func NewScheduleMonitor(db *gorm.DB, hub Broadcaster, event string) *ScheduleMonitor {
	return &ScheduleMonitor{
		DB:       db,
		Hub:      hub,
		Event:    event,
		Interval: time.Minute,
		Now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (sm *ScheduleMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := sm.Check(context.Background()); err != nil {
					utils.ErrorLogger.Printf("Schedule check failed: %v", err)
				}
				sm.Sweep()
			case <-sm.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Schedule monitor started (interval %s)", sm.Interval)
}

// AddPruner registers state to be swept on every tick.
func (sm *ScheduleMonitor) AddPruner(p Pruner) {
	sm.pruneMu.Lock()
	defer sm.pruneMu.Unlock()
	sm.pruners = append(sm.pruners, p)
}

// Sweep prunes revoked sessions and every registered pruner.
func (sm *ScheduleMonitor) Sweep() int {
	now := sm.Now()
	n := utils.PruneBlacklist(now)
	if n > 0 {
		utils.InfoLogger.Printf("Pruned %d expired revoked sessions", n)
	}

	sm.pruneMu.Lock()
	pruners := append([]Pruner(nil), sm.pruners...)
	sm.pruneMu.Unlock()
	for _, p := range pruners {
		n += p.Prune(now)
	}
	return n
}

func (sm *ScheduleMonitor) Stop() {
	sm.stopOnce.Do(func() { close(sm.stopChan) })
}

// Check computes the current snapshot and broadcasts it when it differs
// from the previous one. The first check only records the baseline.
func (sm *ScheduleMonitor) Check(ctx context.Context) (bool, error) {
	snap, err := CurrentSchedule(ctx, sm.DB, sm.Now())
	if err != nil {
		return false, err
	}

	prev := sm.last
	sm.last = &snap
	if prev == nil || prev.equal(snap) {
		return false, nil
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"promos":  len(snap.PromoIDs),
		"posters": len(snap.PosterIDs),
	}).Info("Live promo schedule changed")
	if sm.Hub != nil {
		sm.Hub.Broadcast(sm.Event, snap)
	}
	return true, nil
}

// CurrentSchedule loads promos and posters and returns the ids live at now.
func CurrentSchedule(ctx context.Context, db *gorm.DB, now time.Time) (ScheduleSnapshot, error) {
	var promos []models.Promo
	if err := db.WithContext(ctx).Where("is_active = ?", true).Find(&promos).Error; err != nil {
		return ScheduleSnapshot{}, err
	}
	var posters []models.PromoPoster
	if err := db.WithContext(ctx).Where("is_active = ?", true).Find(&posters).Error; err != nil {
		return ScheduleSnapshot{}, err
	}

	snap := ScheduleSnapshot{At: now, PromoIDs: []uint{}, PosterIDs: []uint{}}
	for _, p := range CurrentPromos(promos, now) {
		snap.PromoIDs = append(snap.PromoIDs, p.ID)
	}
	for _, p := range EligiblePosters(posters, now) {
		snap.PosterIDs = append(snap.PosterIDs, p.ID)
	}
	sort.Slice(snap.PromoIDs, func(i, j int) bool { return snap.PromoIDs[i] < snap.PromoIDs[j] })
	sort.Slice(snap.PosterIDs, func(i, j int) bool { return snap.PosterIDs[i] < snap.PosterIDs[j] })
	return snap, nil
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
