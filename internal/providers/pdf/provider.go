package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrEmptySheet = errors.New("empty_order_sheet")

type Provider interface {
	GenerateOrderSheet(ctx context.Context, sheet OrderSheet) (io.Reader, error)
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateOrderSheet(ctx context.Context, sheet OrderSheet) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sheet.OrderNumber == "" {
		return nil, ErrEmptySheet
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Order Sheet", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, sheet.OrderNumber, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   3,
		}),
	)
	m.AddRow(8,
		text.NewCol(8, "Status: "+sheet.Status, props.Text{Size: 9}),
		text.NewCol(4, "Issued: "+sheet.IssuedAt, props.Text{Size: 9, Align: align.Right}),
	)

	for _, section := range sheet.Sections {
		if len(section.Fields) == 0 {
			continue
		}
		m.AddRow(12,
			text.NewCol(12, section.Title, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   5,
			}),
		)
		for _, field := range section.Fields {
			m.AddRow(7,
				text.NewCol(4, field.Label, props.Text{Size: 9, Style: fontstyle.Bold}),
				text.NewCol(8, field.Value, props.Text{Size: 9}),
			)
		}
	}

	if sheet.Notes != "" {
		m.AddRow(12,
			text.NewCol(12, "Notes", props.Text{Size: 12, Style: fontstyle.Bold, Top: 5}),
		)
		m.AddRow(20,
			col.New(12).Add(
				text.New(sheet.Notes, props.Text{Size: 9}),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
