package service

import "sync"

// fetchGuard implementa "gana la última petición": cada lectura contra el
// backend toma una generación por incidente y solo puede escribir en caché
// si ninguna petición posterior (lectura o escritura) avanzó la generación
// mientras estaba en vuelo. Sin esto, una respuesta lenta y antigua podría
// sobrescribir en caché el resultado de una más reciente.
type fetchGuard struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func newFetchGuard() *fetchGuard {
	return &fetchGuard{
		gens: make(map[string]uint64),
	}
}

// begin avanza y devuelve la generación de la clave.
func (g *fetchGuard) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
	return g.gens[key]
}

// current devuelve la generación vigente de la clave.
func (g *fetchGuard) current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key]
}
