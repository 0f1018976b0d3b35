package pagination

// Item is one entry of a page window: a page number or a gap marker.
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Window lists the page links to render: first, last, current and its
// neighbours, with one ellipsis per gap. No page appears twice.
//
//	Window(5, 10) => 1 … 4 5 6 … 10
func Window(current, totalPages int) []Item {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	show := func(p int) bool {
		return p == 1 || p == totalPages || (p >= current-1 && p <= current+1)
	}

	items := make([]Item, 0, 7)
	gap := false
	for p := 1; p <= totalPages; p++ {
		if !show(p) {
			gap = true
			continue
		}
		if gap {
			items = append(items, Item{Ellipsis: true})
			gap = false
		}
		items = append(items, Item{Page: p, Current: p == current})
	}
	return items
}
