package query

// Paginate devuelve la ventana de la página pedida y el total de páginas.
// totalPages es como mínimo 1 aunque la colección esté vacía. Una página
// fuera de rango devuelve una ventana vacía: este cálculo es puro y no
// ajusta la página por el llamador; es él quien debe reiniciarla cuando la
// colección subyacente cambia.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * pageSize
	if page < 1 || start >= len(items) {
		return []T{}, totalPages
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
