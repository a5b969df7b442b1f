package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/vulca/internal/bill/render"
)

// Provider exports work order documents as PDF.
type Provider interface {
	GenerateWorkOrder(ctx context.Context, doc *render.Document) (io.Reader, error)
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// GenerateWorkOrder lays out both printed copies of the resolved work
// order, one per page.
func (p *PDFProvider) GenerateWorkOrder(ctx context.Context, doc *render.Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	for i, copyLabel := range doc.Copies {
		if i > 0 {
			m.AddPages(page.New())
		}

		m.AddRow(8,
			text.NewCol(12, copyLabel.Header, props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		)

		m.AddRow(14,
			text.NewCol(12, "Comanda de lucru", props.Text{
				Size:  20,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		)

		m.AddRow(14,
			col.New(6).Add(
				text.New("Numar: "+doc.Number, props.Text{Top: 0, Style: fontstyle.Bold}),
			),
			col.New(6).Add(
				text.New("Data: "+doc.Date, props.Text{Top: 0, Style: fontstyle.Bold}),
			),
		)

		companyCol := col.New(6).Add(
			text.New(doc.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New("Sediu: "+doc.CompanyAddress, props.Text{Top: 5, Size: 9}),
			text.New("Telefon: "+doc.CompanyPhone, props.Text{Top: 10, Size: 9}),
			text.New("CIF: "+doc.CompanyCIF, props.Text{Top: 15, Size: 9}),
		)

		clientCol := col.New(6)
		clientCol.Add(text.New("Client", props.Text{Style: fontstyle.Bold}))
		top := 5.0
		for _, kv := range doc.Client {
			clientCol.Add(text.New(kv.Key+": "+kv.Value, props.Text{Top: top, Size: 9}))
			top += 5
		}

		m.AddRow(30, companyCol, clientCol)

		m.AddRow(8,
			text.NewCol(8, "Lucrare", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Pret", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Nr. roți", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, line := range doc.Services {
			m.AddRow(7,
				text.NewCol(8, line.Name, props.Text{Size: 9}),
				text.NewCol(2, line.Price, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, line.Count, props.Text{Size: 9, Align: align.Right}),
			)
		}

		m.AddRow(10,
			text.NewCol(12, "Tip Auto: "+doc.VehicleLabel, props.Text{Size: 10, Top: 3}),
		)

		if len(doc.Details) > 0 {
			m.AddRow(8,
				text.NewCol(6, "Detaliu", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.NewCol(6, "Valoare", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			)
			for _, detail := range doc.Details {
				m.AddRow(7,
					text.NewCol(6, detail.Name, props.Text{Size: 9}),
					text.NewCol(6, detail.Value, props.Text{Size: 9, Align: align.Right}),
				)
			}
		}

		m.AddRow(8,
			col.New(6),
			text.NewCol(6, "Pret fara TVA: "+doc.SubtotalExVAT+" lei", props.Text{Size: 9, Align: align.Right}),
		)
		m.AddRow(8,
			col.New(6),
			text.NewCol(6, "Total manopera (cu TVA 19%): "+doc.TotalWithVAT+" lei", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		)

		m.AddRow(20,
			col.New(6).Add(
				text.New("Executant", props.Text{Style: fontstyle.Bold, Top: 5}),
				text.New("______________________", props.Text{Top: 14}),
			),
			col.New(6).Add(
				text.New("Semnatura client", props.Text{Style: fontstyle.Bold, Top: 5, Align: align.Right}),
				text.New("______________________", props.Text{Top: 14, Align: align.Right}),
			),
		)

		m.AddRow(18,
			col.New(12).Add(
				text.New("Certificat de garantie", props.Text{Style: fontstyle.Bold}),
				text.New("Se acordă garanție conform Legii nr. 449/2003 și Legii nr. 296/2004 pentru serviciile prestate și manopera executată, în baza convenției stabilite între părți.", props.Text{Top: 6, Size: 8}),
			),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}
