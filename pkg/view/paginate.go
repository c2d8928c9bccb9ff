package view

import "github.com/oakwood-commons/tabula/pkg/record"

// TotalPages returns ceil(n / pageSize). A page size below 1 means a single
// page holding everything.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 0
	}
	if pageSize < 1 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of records and the page count. A page
// outside [1, totalPages] yields an empty slice; callers keep the page in
// range through state transitions.
func Paginate(records []record.Record, page, pageSize int) ([]record.Record, int) {
	total := TotalPages(len(records), pageSize)
	if page < 1 || page > total {
		return []record.Record{}, total
	}
	if pageSize < 1 {
		return records, total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], total
}

// clampPage keeps page inside [1, max(total, 1)].
func clampPage(page, total int) int {
	upper := total
	if upper < 1 {
		upper = 1
	}
	if page > upper {
		return upper
	}
	if page < 1 {
		return 1
	}
	return page
}
