// Package ledger reúne las reglas puras del libro de stock: aplicación de un
// movimiento sobre el saldo de un material, conciliación saldo/libro y el
// formato de las referencias que citan pedidos de compra.
package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Apply calcula el nuevo stock tras aplicar un movimiento. No muta nada: si devuelve error
// el saldo actual sigue siendo válido.
func Apply(current int64, kind entity.MovementKind, qty int64) (int64, error) {
	if qty <= 0 {
		return current, domain.ErrInvalidQuantity
	}
	if !kind.IsValid() {
		return current, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	if kind.IsInbound() {
		return current + qty, nil
	}
	if current < qty {
		return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, qty)
	}
	return current - qty, nil
}

// Reconciliation resultado de comparar el stock persistido con la suma firmada del libro.
type Reconciliation struct {
	Stock         int64
	LedgerBalance int64
	Inbound       int64
	Outbound      int64
	Movements     int
}

// Drift diferencia stock - libro; 0 cuando están conciliados.
func (r Reconciliation) Drift() int64 { return r.Stock - r.LedgerBalance }

// Consistent true si stock y libro coinciden.
func (r Reconciliation) Consistent() bool { return r.Drift() == 0 }

// Reconcile suma los movimientos de un material y los compara con su stock.
func Reconcile(stock int64, movements []*entity.MovementRecord) Reconciliation {
	r := Reconciliation{Stock: stock, Movements: len(movements)}
	for _, m := range movements {
		if m.Kind.IsInbound() {
			r.Inbound += m.Quantity
		} else {
			r.Outbound += m.Quantity
		}
	}
	r.LedgerBalance = r.Inbound - r.Outbound
	return r
}

// OrderReference referencia que la recepción de un pedido escribe en el libro.
func OrderReference(orderID int64) string {
	return fmt.Sprintf("Pedido #%d", orderID)
}

// ParseOrderReference extrae el id de pedido de una referencia: el texto tras el último '#',
// sin la anotación entre paréntesis ni espacios. Sin '#' se intenta con el texto completo.
func ParseOrderReference(ref string) (int64, bool) {
	s := ref
	if i := strings.LastIndex(s, "#"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
