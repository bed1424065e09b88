package journey

// Progress tracks how far the traveller has got through a Journey.
// It is not safe for concurrent use; session.Session serialises access.
type Progress struct {
	journey  *Journey
	index    int
	finished bool
	unit     Unit
}

func NewProgress(j *Journey, unit Unit) *Progress {
	return &Progress{journey: j, unit: unit}
}

func (p *Progress) Journey() *Journey { return p.journey }
func (p *Progress) CurrentIndex() int { return p.index }
func (p *Progress) Finished() bool    { return p.finished }
func (p *Progress) Unit() Unit        { return p.unit }

// Advance marks the stop at the current index as reached. Reaching the last
// stop finishes the journey; calls after that do nothing.
func (p *Progress) Advance() {
	if p.finished {
		return
	}
	if p.index == p.journey.Len()-1 {
		p.finished = true
	}
	p.index++
}

func (p *Progress) Restart() {
	p.index = 0
	p.finished = false
}

func (p *Progress) ToggleUnit() {
	if p.unit == Metric {
		p.unit = Imperial
	} else {
		p.unit = Metric
	}
}

func (p *Progress) TotalDistance() float64 { return p.journey.TotalDistance() }

// DistanceCovered is derived from the index, in km.
func (p *Progress) DistanceCovered() float64 { return p.journey.coveredAt(p.index) }

func (p *Progress) RemainingDistance() float64 {
	return p.TotalDistance() - p.DistanceCovered()
}

// Fraction is the covered share of the total distance, clamped to [0,1].
func (p *Progress) Fraction() float64 {
	total := p.TotalDistance()
	if total <= 0 {
		return 0
	}
	f := p.DistanceCovered() / total
	if f > 1 {
		f = 1
	}
	return f
}

func (p *Progress) DisplayDistance(km float64) string {
	return FormatDistance(km, p.unit)
}

func (p *Progress) HighlightState(stopIndex int) Highlight {
	return HighlightAt(p.index, stopIndex)
}

// HighlightAt classifies stopIndex relative to the progress pointer.
func HighlightAt(currentIndex, stopIndex int) Highlight {
	switch {
	case stopIndex == currentIndex:
		return Current
	case stopIndex < currentIndex:
		return Covered
	default:
		return Default
	}
}
