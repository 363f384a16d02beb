package utils

// FilterSlice maps every element through f and keeps the ones f accepts.
func FilterSlice[S any, D any](in []S, f func(S) (D, bool)) []D {
	out := make([]D, 0, len(in))
	for _, s := range in {
		if d, ok := f(s); ok {
			out = append(out, d)
		}
	}
	return out
}

// Paginate returns the page window of in, pages start at 1.
func Paginate[T any](in []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return in
	}
	start := (page - 1) * pageSize
	if start >= len(in) {
		return []T{}
	}
	end := start + pageSize
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}
