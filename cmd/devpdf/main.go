// devpdf genera PDFs de muestra con el layout de fichero que espera la API
// (facturas emitidas y oferta vigente), para probar las descargas en local
// sin el NAS real.
//
// Uso:
//
//	go run ./cmd/devpdf -dir ./_pdfs/invoices_issued -cliente 000962 -ejercicio 2026
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

func main() {
	dir := flag.String("dir", "./_pdfs/invoices_issued", "directorio base de PDFs")
	cliente := flag.String("cliente", "000962", "código clt_prov del cliente")
	ejercicio := flag.Int("ejercicio", time.Now().Year(), "ejercicio fiscal")
	flag.Parse()

	invoiceDir := filepath.Join(*dir, fmt.Sprint(*ejercicio), *cliente)
	if err := os.MkdirAll(invoiceDir, 0o755); err != nil {
		fail("crear directorio de facturas", err)
	}
	offersDir := filepath.Join(*dir, "offers")
	if err := os.MkdirAll(offersDir, 0o755); err != nil {
		fail("crear directorio de ofertas", err)
	}

	samples := []struct {
		documento, numero string
		fecha             time.Time
		total             decimal.Decimal
	}{
		{"FV", "001234", time.Now().AddDate(0, -1, 0), decimal.RequireFromString("121.00")},
		{"FV", "001235", time.Now().AddDate(0, 0, -10), decimal.RequireFromString("348.92")},
	}
	for _, s := range samples {
		name := fmt.Sprintf("Factura_%s%s.pdf", s.documento, s.numero)
		path := filepath.Join(invoiceDir, name)
		if err := writeInvoicePDF(path, *cliente, s.documento+"-"+s.numero, s.fecha, s.total); err != nil {
			fail("generar "+name, err)
		}
		fmt.Println("generado", path)
	}

	expiry := time.Now().AddDate(0, 1, 0)
	offerName := fmt.Sprintf("oferta_%s.pdf", expiry.Format("20060102"))
	offerPath := filepath.Join(offersDir, offerName)
	if err := writeOfferPDF(offerPath, expiry); err != nil {
		fail("generar "+offerName, err)
	}
	fmt.Println("generado", offerPath)
}

func fail(what string, err error) {
	fmt.Fprintln(os.Stderr, what+":", err)
	os.Exit(1)
}

func newDoc(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

func writeInvoicePDF(path, cliente, factura string, fecha time.Time, total decimal.Decimal) error {
	m := newDoc("Factura " + factura)

	m.AddRows(row.New(14).Add(
		col.New(7).Add(
			text.New("JACPAE S.L.", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Cliente: "+cliente, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Factura "+factura, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New(fecha.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right, Top: 9, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(10).Add(
		col.New(12).Add(
			text.New("Documento de muestra para entorno de desarrollo.", props.Text{Size: 9, Top: 2, Color: colorGray}),
		),
	))
	m.AddRows(row.New(10).Add(
		col.New(12).Add(
			text.New("TOTAL: "+total.StringFixed(2)+" €", props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2}),
		),
	))

	return save(m, path)
}

func writeOfferPDF(path string, expiry time.Time) error {
	m := newDoc("Oferta")

	m.AddRows(row.New(16).Add(
		col.New(12).Add(
			text.New("Oferta especial", props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Align: align.Center, Top: 2}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(12).Add(
		col.New(12).Add(
			text.New("Válida hasta el "+expiry.Format("02/01/2006"), props.Text{Size: 11, Align: align.Center, Top: 3}),
		),
	))

	return save(m, path)
}

func save(m core.Maroto, path string) error {
	doc, err := m.Generate()
	if err != nil {
		return err
	}
	return os.WriteFile(path, doc.GetBytes(), 0o644)
}
