package crud

import (
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// Factory crea núcleos nuevos por petición sobre almacenes compartidos.
// Los almacenes son seguros para uso concurrente; los núcleos no.
type Factory struct {
	persons   PersonDeps
	documents repository.DocumentStore
	log       *logger.Logger
	obs       Observer
}

// NewFactory construye la fábrica. obs puede ser nil.
func NewFactory(persons PersonDeps, documents repository.DocumentStore, log *logger.Logger, obs Observer) *Factory {
	if log == nil {
		log = logger.Nop()
	}
	return &Factory{persons: persons, documents: documents, log: log, obs: obs}
}

// Persons núcleo de personas para una petición.
func (f *Factory) Persons(log *logger.Logger) *PersonCore {
	return NewPersonCore(f.persons, f.logger(log, "crud.person"), f.obs)
}

// Documents núcleo de documentos para una petición.
func (f *Factory) Documents(log *logger.Logger) *DocumentCore {
	return NewDocumentCore(f.documents, f.logger(log, "crud.document"), f.obs)
}

func (f *Factory) logger(log *logger.Logger, component string) *logger.Logger {
	if log == nil {
		log = f.log
	}
	return log.Named(component)
}
