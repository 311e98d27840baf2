// Package catalog lee exportaciones XML del catálogo de productos (ISO-8859-1 o UTF-8).
package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type document struct {
	Productos []producto `xml:"producto"`
}

type producto struct {
	SKU         string `xml:"sku,attr"`
	Nombre      string `xml:"nombre,attr"`
	Precio      string `xml:"precio,attr"`
	StockMinimo string `xml:"stock_minimo,attr"`
	Atributo    string `xml:"atributo,attr"`
}

// Parse decodifica el documento y devuelve los productos con SKU normalizado.
// Un SKU repetido conserva la última fila.
func Parse(r io.Reader) ([]entity.Product, error) {
	var doc document
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	index := make(map[string]int, len(doc.Productos))
	out := make([]entity.Product, 0, len(doc.Productos))
	for i, p := range doc.Productos {
		prod, err := p.toEntity()
		if err != nil {
			return nil, fmt.Errorf("producto %d: %w", i+1, err)
		}
		if pos, ok := index[prod.SKU]; ok {
			out[pos] = prod
			continue
		}
		index[prod.SKU] = len(out)
		out = append(out, prod)
	}
	return out, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "":
		return input, nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

func (p producto) toEntity() (entity.Product, error) {
	sku := entity.NormalizeSKU(p.SKU)
	if sku == "" {
		return entity.Product{}, domain.Invalid("sku", "obligatorio")
	}
	name := strings.TrimSpace(p.Nombre)
	if name == "" {
		return entity.Product{}, domain.Invalid("nombre", "obligatorio")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(p.Precio))
	if err != nil {
		return entity.Product{}, domain.Invalid("precio", "no es un número")
	}
	if price.IsNegative() {
		return entity.Product{}, domain.Invalid("precio", "no puede ser negativo")
	}
	minStock := 0
	if s := strings.TrimSpace(p.StockMinimo); s != "" {
		if minStock, err = strconv.Atoi(s); err != nil || minStock < 0 {
			return entity.Product{}, domain.Invalid("stock_minimo", "entero no negativo")
		}
	}
	return entity.Product{
		SKU:              sku,
		Name:             name,
		Price:            price,
		MinStock:         minStock,
		BarcodeAttribute: entity.NormalizeSKU(p.Atributo),
	}, nil
}
