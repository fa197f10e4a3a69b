package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

const csvFerreteria = `categoria;sku;nombre;descripcion;precio;stock
Herramientas;mar-01;Martillo de uña;Mango de fibra;12,50;10
Herramientas;des-02;Destornillador;Punta plana;4.75;30
Tornillería;tor-10;Tornillo 1/4;Caja x 100;3;0
`

func TestReadCatalog_Windows1252ConComaDecimal(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String(csvFerreteria)
	require.NoError(t, err)

	r, err := decodeReader(bytes.NewReader([]byte(encoded)), "windows-1252")
	require.NoError(t, err)
	rows, err := readCatalog(r, ';')
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "Martillo de uña", rows[0].Product.Name)
	assert.Equal(t, "12.5", rows[0].Product.Price.String())
	assert.Equal(t, "Tornillería", rows[2].Category)
	assert.Equal(t, 4, rows[2].Line)
}

func TestReadCatalog_EncabezadoIncorrecto(t *testing.T) {
	_, err := readCatalog(strings.NewReader("sku,nombre,categoria,descripcion,precio,stock\n"), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categoria")
}

func TestReadCatalog_PrecioInvalidoIndicaLinea(t *testing.T) {
	in := "categoria,sku,nombre,descripcion,precio,stock\nA,X1,Llave,,doce,1\n"
	_, err := readCatalog(strings.NewReader(in), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestDecodeReader_CodificacionDesconocida(t *testing.T) {
	_, err := decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestImporter_CreaCategoriasYOmiteSKUExistentes(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	newImporter := func() *importer {
		return &importer{
			categories: repos.Categories,
			categoryUC: usecase.NewCategoryUseCase(repos.Categories),
			productUC:  usecase.NewProductUseCase(repos.Products, repos.Categories),
			products:   repos.Products,
			log:        logger.Nop(),
			bySlug:     map[string]string{},
		}
	}
	rows, err := readCatalog(strings.NewReader(csvFerreteria), ';')
	require.NoError(t, err)

	created, skipped, err := newImporter().run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, skipped)

	cats, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	p, err := repos.Products.GetBySKU(ctx, "MAR-01")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 10, p.Stock)

	// Segunda corrida: todo existe.
	created, skipped, err = newImporter().run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 3, skipped)
}
