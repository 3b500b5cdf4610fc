package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
)

// DateLayout formato de fechas en cuerpos JSON ("yyyy-MM-dd").
const DateLayout = criteria.DateLayout

// PageResponse página de resultados en respuestas de listado.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ParseDate convierte "yyyy-MM-dd"; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: se espera yyyy-MM-dd", s)
	}
	return &t, nil
}

// FormatDate inverso de ParseDate.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
