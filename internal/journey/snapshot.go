package journey

// StopView is one row of the stop list as a renderer needs it.
type StopView struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Distance  string    `json:"distance"`
	Highlight Highlight `json:"-"`
	State     string    `json:"state"`
}

// Snapshot is a value copy of everything derived from a Progress.
type Snapshot struct {
	Journey         string     `json:"journey"`
	CurrentIndex    int        `json:"currentIndex"`
	Finished        bool       `json:"finished"`
	Unit            string     `json:"unit"`
	DistanceCovered float64    `json:"distanceCoveredKm"`
	TotalDistance   float64    `json:"totalDistanceKm"`
	Remaining       float64    `json:"remainingKm"`
	Fraction        float64    `json:"fraction"`
	CoveredText     string     `json:"coveredText"`
	RemainingText   string     `json:"remainingText"`
	Stops           []StopView `json:"stops"`
}

func (p *Progress) Snapshot() Snapshot {
	j := p.journey
	s := Snapshot{
		Journey:         j.Name(),
		CurrentIndex:    p.index,
		Finished:        p.finished,
		Unit:            p.unit.String(),
		DistanceCovered: p.DistanceCovered(),
		TotalDistance:   p.TotalDistance(),
		Remaining:       p.RemainingDistance(),
		Fraction:        p.Fraction(),
		Stops:           make([]StopView, j.Len()),
	}
	s.CoveredText = p.DisplayDistance(s.DistanceCovered)
	s.RemainingText = p.DisplayDistance(s.Remaining)
	for i, st := range j.stops {
		h := p.HighlightState(i)
		s.Stops[i] = StopView{
			Index:     i,
			Name:      st.Name,
			Distance:  p.DisplayDistance(st.DistanceToNext),
			Highlight: h,
			State:     h.String(),
		}
	}
	return s
}
