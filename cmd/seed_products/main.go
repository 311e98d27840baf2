// seed_products carga el catálogo de productos en el almacén configurado (DB_DRIVER)
// a partir de una exportación XML (ISO-8859-1, Windows-1252 o UTF-8).
//
// Uso: go run ./cmd/seed_products [ruta/catalogo.xml]
// Por defecto lee testdata/catalogo.xml.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	xmlPath := "testdata/catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	products, err := catalog.Parse(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacén")
	}
	defer store.Close()

	for _, p := range products {
		if err := store.Catalog.UpsertProduct(ctx, p); err != nil {
			log.Fatal().Err(err).Str("sku", p.SKU).Msg("guardar producto")
		}
	}
	log.Info().Int("productos", len(products)).Str("driver", store.Driver).Msg("catálogo cargado")
}
