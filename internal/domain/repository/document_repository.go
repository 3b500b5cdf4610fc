package repository

import "github.com/jhoicas/Documentos-api/internal/domain/entity"

// DocumentStore define el puerto de persistencia para Document.
// Las lecturas devuelven Customer y Executor cargados cuando existen.
type DocumentStore interface {
	EntityStore[entity.Document, int]
}
