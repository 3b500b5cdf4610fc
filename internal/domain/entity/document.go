package entity

import "time"

// Document representa un documento con cliente y ejecutor.
type Document struct {
	ID              int
	Title           string
	Status          string
	CreationDate    *time.Time
	ExecutionPeriod *time.Time // fecha límite de ejecución
	CustomerID      int
	Customer        *Person
	ExecutorID      int
	Executor        *Person
	IsDeleted       bool
}

// SameAs compara por identidad y clave natural (id, título, fecha de creación).
func (d *Document) SameAs(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.ID != o.ID || d.Title != o.Title {
		return false
	}
	if d.CreationDate == nil || o.CreationDate == nil {
		return d.CreationDate == o.CreationDate
	}
	return d.CreationDate.Equal(*o.CreationDate)
}

// CustomerRef FK efectiva del cliente (campo o persona relacionada). 0 = sin asignar.
func (d *Document) CustomerRef() int {
	return ref(d.CustomerID, d.Customer)
}

// ExecutorRef FK efectiva del ejecutor. 0 = sin asignar.
func (d *Document) ExecutorRef() int {
	return ref(d.ExecutorID, d.Executor)
}

func ref(id int, p *Person) int {
	if id != 0 {
		return id
	}
	if p != nil {
		return p.ID
	}
	return 0
}
