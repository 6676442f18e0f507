// seed importa el catálogo inicial de materiales desde un CSV separado por ';'
// (nome;categoria;unidade;preco;estoque) y registra el saldo inicial como ENTRADA.
//
// Uso: go run ./cmd/seed [-latin1] materiais.csv
// Usa la misma configuración que la API (DATABASE_URL, STORAGE_DRIVER...).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] materiais.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer backend.Close()
	if backend.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: la importación no se persiste (solo validación)")
	}

	im := newImporter(
		usecase.NewCatalogUseCase(backend.Categories, backend.Units),
		usecase.NewMaterialUseCase(backend.Materials, backend.Categories, backend.Units, nil),
		inventory.NewLedgerUseCase(backend.TxRunner, nil, log),
	)
	res, err := im.Import(ctx, decodeInput(f, *latin1))
	if err != nil {
		log.Error().Err(err).Msg("importación interrumpida")
	}
	if res != nil {
		for _, s := range res.Skipped {
			log.Warn().Str("motivo", s).Msg("fila ignorada")
		}
		log.Info().
			Int("materiales", res.Materials).
			Int("categorias", res.Categories).
			Int("unidades", res.Units).
			Int("ignoradas", len(res.Skipped)).
			Msg("importación terminada")
	}
	if err != nil {
		os.Exit(1)
	}
}
