package dto

import (
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

// DocumentRequest entrada para crear o reemplazar un documento.
type DocumentRequest struct {
	Title           string `json:"title"`
	Status          string `json:"status"`
	CreationDate    string `json:"creationDate"`
	ExecutionPeriod string `json:"executionPeriod"`
	CustomerID      int    `json:"customerId"`
	ExecutorID      int    `json:"executorId"`
}

// ToEntity construye la entidad con las FKs; las fechas mal formadas son error.
func (r DocumentRequest) ToEntity() (*entity.Document, error) {
	created, err := ParseDate(r.CreationDate)
	if err != nil {
		return nil, err
	}
	period, err := ParseDate(r.ExecutionPeriod)
	if err != nil {
		return nil, err
	}
	return &entity.Document{
		Title:           r.Title,
		Status:          r.Status,
		CreationDate:    created,
		ExecutionPeriod: period,
		CustomerID:      r.CustomerID,
		ExecutorID:      r.ExecutorID,
	}, nil
}

// DocumentResponse salida de un documento con cliente y ejecutor resumidos.
type DocumentResponse struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	CreationDate    string     `json:"creationDate,omitempty"`
	ExecutionPeriod string     `json:"executionPeriod,omitempty"`
	Customer        *PersonRef `json:"customer,omitempty"`
	Executor        *PersonRef `json:"executor,omitempty"`
	IsDeleted       bool       `json:"isDeleted"`
}

// NewDocumentResponse mapea la entidad.
func NewDocumentResponse(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:              d.ID,
		Title:           d.Title,
		Status:          d.Status,
		CreationDate:    FormatDate(d.CreationDate),
		ExecutionPeriod: FormatDate(d.ExecutionPeriod),
		Customer:        newPersonRef(d.Customer),
		Executor:        newPersonRef(d.Executor),
		IsDeleted:       d.IsDeleted,
	}
}
