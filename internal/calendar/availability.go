package calendar

import (
	"fmt"
	"time"
)

// AvailableSlots filters the daily slot grid down to the entries not covered
// by any busy interval. Occupancy is computed by walking each interval from
// start through its end boundary in consultation-duration steps and marking
// every HH:MM hit; the end boundary is included so a consult cannot start the
// instant another one finishes.
func AvailableSlots(grid []string, busy []BusyInterval, step time.Duration) []string {
	if step <= 0 {
		step = 30 * time.Minute
	}
	taken := make(map[string]struct{})
	for _, interval := range busy {
		if interval.End.Before(interval.Start) {
			continue
		}
		for cur := interval.Start; !cur.After(interval.End); cur = cur.Add(step) {
			taken[fmt.Sprintf("%02d:%02d", cur.Hour(), cur.Minute())] = struct{}{}
		}
	}
	avail := make([]string, 0, len(grid))
	for _, slot := range grid {
		if _, occupied := taken[slot]; !occupied {
			avail = append(avail, slot)
		}
	}
	return avail
}
