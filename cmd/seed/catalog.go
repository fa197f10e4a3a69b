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

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// Columnas esperadas del CSV de catálogo (con encabezado).
var catalogHeader = []string{"categoria", "sku", "nombre", "descripcion", "precio", "stock"}

// catalogRow producto leído del archivo; la categoría se resuelve por nombre.
type catalogRow struct {
	Line     int
	Category string
	Product  dto.CreateProductRequest
}

// decodeReader envuelve r según la codificación del archivo. Las planillas exportadas
// desde Excel en español suelen venir en Windows-1252.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// readCatalog parsea el CSV completo. Acepta "," o ";" como separador y precios con coma decimal.
func readCatalog(r io.Reader, sep rune) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(catalogHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	for i, want := range catalogHeader {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF")), want) {
			return nil, fmt.Errorf("columna %d: esperaba %q, vino %q", i+1, want, header[i])
		}
	}

	var rows []catalogRow
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[4]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q inválido", line, rec[4])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[5]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock %q inválido", line, rec[5])
		}
		rows = append(rows, catalogRow{
			Line:     line,
			Category: strings.TrimSpace(rec[0]),
			Product: dto.CreateProductRequest{
				SKU:         strings.TrimSpace(rec[1]),
				Name:        strings.TrimSpace(rec[2]),
				Description: strings.TrimSpace(rec[3]),
				Price:       price,
				Stock:       stock,
			},
		})
	}
	return rows, nil
}

// importer crea categorías y productos a través de los casos de uso para reutilizar sus validaciones.
type importer struct {
	categories repository.CategoryRepository
	categoryUC *usecase.CategoryUseCase
	productUC  *usecase.ProductUseCase
	products   repository.ProductRepository
	log        *logger.Logger
	bySlug     map[string]string // slug → id
}

func (imp *importer) categoryID(ctx context.Context, name string) (string, error) {
	slug := usecase.Slugify(name)
	if id, ok := imp.bySlug[slug]; ok {
		return id, nil
	}
	c, err := imp.categories.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if c != nil {
		imp.bySlug[slug] = c.ID
		return c.ID, nil
	}
	created, err := imp.categoryUC.Create(ctx, dto.CategoryRequest{Name: name, Slug: slug})
	if err != nil {
		return "", fmt.Errorf("categoría %q: %w", name, err)
	}
	imp.log.Info().Str("category", created.Name).Msg("categoría creada")
	imp.bySlug[slug] = created.ID
	return created.ID, nil
}

// run importa fila por fila. Un SKU ya existente se omite; cualquier otro error detiene la carga.
func (imp *importer) run(ctx context.Context, rows []catalogRow) (created, skipped int, err error) {
	for _, row := range rows {
		existing, err := imp.products.GetBySKU(ctx, strings.ToUpper(row.Product.SKU))
		if err != nil {
			return created, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}
		in := row.Product
		if in.CategoryID, err = imp.categoryID(ctx, row.Category); err != nil {
			return created, skipped, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		if err := dto.Validate(in); err != nil {
			return created, skipped, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		if _, err := imp.productUC.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		created++
	}
	return created, skipped, nil
}
