package date

// Range represents a range of dates.
type Range struct{ From, To Date }

// Contains returns true when date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Window is an asymmetric day window around a center date. Before and After
// are counted in days; both boundaries are included.
type Window struct {
	Before int
	After  int
}

// Around materializes the window around a center date.
func (w Window) Around(center Date) Range {
	return Range{From: center.Add(-w.Before), To: center.Add(w.After)}
}

// Contains reports whether d falls within the window around center.
func (w Window) Contains(center, d Date) bool { return w.Around(center).Contains(d) }
