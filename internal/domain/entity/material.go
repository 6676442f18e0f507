package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Material representa un insumo inventariado. Stock solo cambia a través del libro de movimientos.
type Material struct {
	ID         int64
	Name       string
	Stock      int64 // nunca negativo
	UnitPrice  decimal.Decimal
	CategoryID *int64
	UnitID     *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanonicalName normaliza el nombre de un material: sin espacios extremos y en mayúsculas.
// Un Caser no admite uso concurrente, así que se crea uno por llamada.
func CanonicalName(name string) string {
	return cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(name))
}

// Normalize aplica las reglas de escritura del material.
func (m *Material) Normalize() {
	m.Name = CanonicalName(m.Name)
	m.UnitPrice = m.UnitPrice.Round(2)
}

// StockValue valor del stock actual a precio unitario.
func (m *Material) StockValue() decimal.Decimal {
	return m.UnitPrice.Mul(decimal.NewFromInt(m.Stock))
}
