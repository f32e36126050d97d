package scheduler

import "github.com/Freeeeeet/court_booking/internal/model"

// Interval полуинтервал [Start, End)
type Interval struct {
	Start model.Clock `json:"start"`
	End   model.Clock `json:"end"`
}

func IntervalOf(r *model.Reservation) Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// Overlaps касание концов (10:00-11:00 и 11:00-12:00) пересечением не считается
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// FindConflict возвращает первую бронь, пересекающуюся с candidate.
// existing должен быть уже отфильтрован по корту и дате.
func FindConflict(candidate Interval, existing []*model.Reservation) (*model.Reservation, bool) {
	for _, r := range existing {
		if candidate.Overlaps(IntervalOf(r)) {
			return r, true
		}
	}
	return nil, false
}
