package discovery

// normalizePage applies the default limit, clamps to max and rejects
// negative offsets.
func normalizePage(p Page, defaultLimit, maxLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Paginate slices an already ranked set. hasMore is true when items exist
// past the returned window.
func Paginate[T any](items []T, p Page) (page []T, hasMore bool) {
	if p.Offset >= len(items) || p.Limit <= 0 {
		return []T{}, false
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end], end < len(items)
}
