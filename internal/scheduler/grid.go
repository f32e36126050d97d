package scheduler

import "github.com/Freeeeeet/court_booking/internal/model"

// ReservationInfo кто занял слот
type ReservationInfo struct {
	ReservationID int64  `json:"reservation_id"`
	UserFullName  string `json:"user_full_name"`
	Username      string `json:"username"`
	IsCurrentUser bool   `json:"is_current_user"`
}

type SlotStatus struct {
	Slot        Interval         `json:"slot"`
	Reserved    bool             `json:"reserved"`
	Reservation *ReservationInfo `json:"reservation_info"`
}

type CourtAvailability struct {
	Court int          `json:"court"`
	Slots []SlotStatus `json:"slots"`
}

// Grid занятость всех кортов на дату: корты в порядке конфигурации, слоты по времени
type Grid struct {
	Date   string              `json:"date"`
	Courts []CourtAvailability `json:"courts"`
}

func (g *Grid) Court(court int) (*CourtAvailability, bool) {
	for i := range g.Courts {
		if g.Courts[i].Court == court {
			return &g.Courts[i], true
		}
	}
	return nil, false
}

// Len общее число ячеек (корты × слоты)
func (g *Grid) Len() int {
	n := 0
	for _, c := range g.Courts {
		n += len(c.Slots)
	}
	return n
}

// BuildGrid строит сетку занятости. Слот занят, если пересекается с любой бронью
// этого корта; бронь на несколько слотов помечает каждый из них.
func BuildGrid(cfg Config, date string, viewerID int64, reservations []*model.Reservation) *Grid {
	byCourt := make(map[int][]*model.Reservation, len(cfg.Courts))
	for _, r := range reservations {
		if r.Date != date {
			continue
		}
		byCourt[r.CourtNumber] = append(byCourt[r.CourtNumber], r)
	}

	slots := cfg.Slots()
	grid := &Grid{Date: date, Courts: make([]CourtAvailability, 0, len(cfg.Courts))}

	for _, court := range cfg.Courts {
		ca := CourtAvailability{Court: court, Slots: make([]SlotStatus, 0, len(slots))}
		for _, slot := range slots {
			status := SlotStatus{Slot: slot}
			if r, ok := FindConflict(slot, byCourt[court]); ok {
				status.Reserved = true
				status.Reservation = &ReservationInfo{
					ReservationID: r.ID,
					UserFullName:  r.UserFullName,
					Username:      r.Username,
					IsCurrentUser: viewerID != 0 && r.UserID == viewerID,
				}
			}
			ca.Slots = append(ca.Slots, status)
		}
		grid.Courts = append(grid.Courts, ca)
	}

	return grid
}
