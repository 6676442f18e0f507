package entity

import "time"

// MovementKind tipo de movimiento del libro de stock.
type MovementKind string

// Tipos de movimiento. Solo ENTRADA suma stock.
const (
	MovementEntrada     MovementKind = "ENTRADA"      // recepción de pedido o entrada manual
	MovementSaida       MovementKind = "SAIDA"        // salida por consumo de servicio
	MovementSaidaManual MovementKind = "SAIDA_MANUAL" // salida manual
	MovementConsumo     MovementKind = "CONSUMO"
)

// IsValid indica si el tipo pertenece a la enumeración cerrada.
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementEntrada, MovementSaida, MovementSaidaManual, MovementConsumo:
		return true
	}
	return false
}

// IsInbound true si el movimiento suma stock.
func (k MovementKind) IsInbound() bool { return k == MovementEntrada }

// MovementRecord entrada inmutable del libro de stock.
type MovementRecord struct {
	ID            int64
	TransactionID string // agrupa los registros escritos por un mismo paso de flujo
	MaterialID    int64
	Kind          MovementKind
	Quantity      int64 // siempre > 0; el signo lo da Kind
	Reference     string
	CreatedAt     time.Time
}

// Signed devuelve +Quantity para entradas y -Quantity para el resto.
func (m MovementRecord) Signed() int64 {
	if m.Kind.IsInbound() {
		return m.Quantity
	}
	return -m.Quantity
}
