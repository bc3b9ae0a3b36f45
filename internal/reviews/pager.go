package reviews

const (
	// InitialVisible is how many reviews a page shows before any
	// load-more, and VisibleStep how many each load-more adds.
	InitialVisible = 2
	VisibleStep    = 2
)

// Pager is the visible-count cursor over an already-aggregated review
// list. It only bounds rendering; every document is fetched eagerly before
// a Pager ever sees the list, and advancing it never triggers fetches.
type Pager struct {
	total   int
	visible int
}

func NewPager(total int) *Pager {
	return &Pager{total: total, visible: InitialVisible}
}

// Advance grows the window by one step. It reports false once the window
// already covers every retained review.
func (p *Pager) Advance() bool {
	if p.visible >= p.total {
		return false
	}
	p.visible += VisibleStep
	return true
}

// Visible is the current window size, clamped to the retained count.
func (p *Pager) Visible() int {
	if p.visible > p.total {
		return p.total
	}
	return p.visible
}

// Window slices the aggregated list down to the current window.
func (p *Pager) Window(list []Review) []Review {
	return list[:p.Visible()]
}
