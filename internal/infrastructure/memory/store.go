// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

type state struct {
	materials   map[int64]entity.Material
	categories  map[int64]entity.Category
	units       map[int64]entity.UnitOfMeasure
	suppliers   map[int64]entity.Supplier
	orders      map[int64]entity.PurchaseOrder
	services    map[int64]entity.Service
	movements   []entity.MovementRecord
	consumption []entity.ConsumptionRecord
	users       map[string]entity.User
	seq         map[string]int64
}

func newState() *state {
	return &state{
		materials:  map[int64]entity.Material{},
		categories: map[int64]entity.Category{},
		units:      map[int64]entity.UnitOfMeasure{},
		suppliers:  map[int64]entity.Supplier{},
		orders:     map[int64]entity.PurchaseOrder{},
		services:   map[int64]entity.Service{},
		users:      map[string]entity.User{},
		seq:        map[string]int64{},
	}
}

func (s *state) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// clone copia profunda; las líneas e ítems se copian para que la transacción no comparta slices.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.materials {
		c.materials[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]entity.OrderLine(nil), v.Lines...)
		c.orders[k] = v
	}
	for k, v := range s.services {
		v.Items = append([]entity.RequiredItem(nil), v.Items...)
		c.services[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.movements = append([]entity.MovementRecord(nil), s.movements...)
	c.consumption = append([]entity.ConsumptionRecord(nil), s.consumption...)
	return c
}

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// scope acceso a los datos: directo al store (con lock) o a la copia de una transacción en curso.
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) read(fn func(s *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.data)
}

func (sc scope) write(fn func(s *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	return fn(sc.store.data)
}

func (s *Store) root() scope { return scope{store: s} }

// Materials repositorio de materiales fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{sc: s.root()} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{sc: s.root()} }

// Units repositorio de unidades de medida.
func (s *Store) Units() *UnitRepo { return &UnitRepo{sc: s.root()} }

// Suppliers repositorio de fornecedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{sc: s.root()} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{sc: s.root()} }

// Services repositorio de servicios.
func (s *Store) Services() *ServiceRepo { return &ServiceRepo{sc: s.root()} }

// Movements repositorio del libro de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{sc: s.root()} }

// Consumption repositorio de registros de consumo.
func (s *Store) Consumption() *ConsumptionRepo { return &ConsumptionRepo{sc: s.root()} }

// Reports consultas de solo lectura.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{sc: s.root()} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{sc: s.root()} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock del store: fn trabaja sobre una copia
// que solo reemplaza a los datos vigentes si fn termina sin error.
// Dentro de fn solo deben usarse los repos recibidos; los del store se bloquearían.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn de forma atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.data.clone()
	sc := scope{store: r.store, tx: work}
	repos := inventory.Repos{
		Materials:   &MaterialRepo{sc: sc},
		Movements:   &MovementRepo{sc: sc},
		Orders:      &OrderRepo{sc: sc},
		Services:    &ServiceRepo{sc: sc},
		Consumption: &ConsumptionRepo{sc: sc},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	r.store.data = work
	return nil
}
