package listing

// PageCount is the number of pages needed to show total items pageSize at a
// time. An empty collection still has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp keeps page within [1, pageCount]
func Clamp(page, pageCount int) int {
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}
