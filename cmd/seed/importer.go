package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Columnas del CSV: nome;categoria;unidade;preco;estoque. Categoría, unidad y estoque son opcionales.
const (
	colName = iota
	colCategory
	colUnit
	colPrice
	colStock
)

const initialStockReference = "Saldo inicial"

// importResult resumen de una importación.
type importResult struct {
	Materials  int
	Categories int
	Units      int
	Skipped    []string
}

// importer carga materiales y su saldo inicial. Categorías y unidades se crean bajo demanda.
type importer struct {
	catalog   *usecase.CatalogUseCase
	materials *usecase.MaterialUseCase
	ledger    *inventory.LedgerUseCase

	categories map[string]int64
	units      map[string]int64
}

func newImporter(catalog *usecase.CatalogUseCase, materials *usecase.MaterialUseCase, ledger *inventory.LedgerUseCase) *importer {
	return &importer{catalog: catalog, materials: materials, ledger: ledger}
}

// decodeInput envuelve r con el decoder ISO-8859-1 cuando latin1 (planillas exportadas de Excel).
func decodeInput(r io.Reader, latin1 bool) io.Reader {
	if latin1 {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// Import procesa todas las filas. Una fila inválida se salta y queda en Skipped;
// un error de almacenamiento corta la importación.
func (im *importer) Import(ctx context.Context, r io.Reader) (*importResult, error) {
	if err := im.loadCatalog(ctx); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	res := &importResult{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "nome") {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		if err := im.importRow(ctx, row, res); err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
	}
	return res, nil
}

type csvRow struct {
	name     string
	category string
	unit     string
	price    decimal.Decimal
	stock    int64
}

func parseRow(rec []string) (csvRow, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	row := csvRow{name: field(colName), category: field(colCategory), unit: field(colUnit)}
	if row.name == "" {
		return row, errors.New("nombre vacío")
	}
	price, err := parsePrice(field(colPrice))
	if err != nil {
		return row, err
	}
	row.price = price
	if s := field(colStock); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return row, fmt.Errorf("estoque inválido %q", s)
		}
		row.stock = n
	}
	return row, nil
}

// parsePrice acepta "12.50" y el formato brasileño "1.234,56". Vacío es cero.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("preço inválido %q", s)
	}
	return d.Round(2), nil
}

func (im *importer) importRow(ctx context.Context, row csvRow, res *importResult) error {
	in := dto.CreateMaterialRequest{Name: row.name, UnitPrice: row.price}
	if row.category != "" {
		id, err := im.categoryID(ctx, row.category, res)
		if err != nil {
			return err
		}
		in.CategoryID = &id
	}
	if row.unit != "" {
		id, err := im.unitID(ctx, row.unit, res)
		if err != nil {
			return err
		}
		in.UnitID = &id
	}
	mat, err := im.materials.Create(ctx, in)
	if err != nil {
		return err
	}
	res.Materials++
	if row.stock == 0 {
		return nil
	}
	_, err = im.ledger.RegisterManualMovement(ctx, dto.RegisterMovementRequest{
		MaterialID: mat.ID,
		Kind:       string(entity.MovementEntrada),
		Quantity:   row.stock,
		Reference:  initialStockReference,
	})
	return err
}

func (im *importer) loadCatalog(ctx context.Context) error {
	im.categories = map[string]int64{}
	im.units = map[string]int64{}
	cats, err := im.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		im.categories[strings.ToLower(c.Name)] = c.ID
	}
	units, err := im.catalog.ListUnits(ctx)
	if err != nil {
		return err
	}
	for _, u := range units {
		im.units[strings.ToLower(u.Name)] = u.ID
	}
	return nil
}

func (im *importer) categoryID(ctx context.Context, name string, res *importResult) (int64, error) {
	if id, ok := im.categories[strings.ToLower(name)]; ok {
		return id, nil
	}
	c, err := im.catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: name})
	if err != nil {
		return 0, err
	}
	im.categories[strings.ToLower(name)] = c.ID
	res.Categories++
	return c.ID, nil
}

func (im *importer) unitID(ctx context.Context, name string, res *importResult) (int64, error) {
	if id, ok := im.units[strings.ToLower(name)]; ok {
		return id, nil
	}
	u, err := im.catalog.CreateUnit(ctx, dto.CreateUnitRequest{Name: name})
	if err != nil {
		return 0, err
	}
	im.units[strings.ToLower(name)] = u.ID
	res.Units++
	return u.ID, nil
}
