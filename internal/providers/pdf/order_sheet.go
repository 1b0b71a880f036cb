package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/labelworks/internal/derive"
	labeldomain "github.com/smallbiznis/labelworks/internal/labelspec/domain"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
)

const emptyValue = "-"

// OrderSheet is the printable production sheet of one order.
type OrderSheet struct {
	OrderNumber string
	Status      string
	IssuedAt    string
	Sections    []Section
	Notes       string
}

type Section struct {
	Title  string
	Fields []Field
}

type Field struct {
	Label string
	Value string
}

// FileName is the download name of an order sheet.
func FileName(orderNumber string) string {
	name := slug.Make("order-sheet-" + orderNumber)
	if name == "" {
		name = "order-sheet"
	}
	return name + ".pdf"
}

// NewOrderSheet lays out an order and its label specification. spec may be nil.
func NewOrderSheet(view orderdomain.OrderView, spec *labeldomain.LabelSpec, issuedAt time.Time) OrderSheet {
	sheet := OrderSheet{
		OrderNumber: view.OrderNumber,
		Status:      view.Status,
		IssuedAt:    issuedAt.Format("2006-01-02"),
		Notes:       strings.TrimSpace(view.Notes),
	}

	customer := view.OrderCompany
	if view.Customer != nil && view.Customer.Name != "" {
		customer = view.Customer.Name
	}
	assignee := ""
	if view.AssignedUser != nil {
		assignee = view.AssignedUser.Username
	}

	sheet.Sections = append(sheet.Sections,
		Section{Title: "Order", Fields: []Field{
			{"Project number", value(view.ProjectNumber)},
			{"Management code", value(view.ManagementCode)},
			{"Received", date(view.ReceivedDate)},
			{"Receiver", value(view.Receiver)},
			{"Assigned to", value(assignee)},
			{"Expected delivery", date(view.ExpectedDeliveryDate)},
			{"Required delivery", date(view.RequiredDeliveryDate)},
		}},
		Section{Title: "Customer", Fields: []Field{
			{"Company", value(customer)},
			{"Person", value(view.OrderPerson)},
			{"Department", value(view.OrderDepartment)},
		}},
		Section{Title: "Product", Fields: []Field{
			{"Product", value(view.ProductName)},
			{"Specs", value(view.ProductSpecs)},
			{"Format", value(view.OrderFormat)},
			{"Quantity", fmt.Sprintf("%d", view.Quantity)},
			{"Unit price", view.UnitPrice.StringFixed(2)},
			{"Total", view.TotalAmount.StringFixed(2)},
			{"Complimentary", yesNo(view.IsComplimentary)},
		}},
	)

	if spec != nil {
		sheet.Sections = append(sheet.Sections, labelSections(spec)...)
	}
	return sheet
}

func labelSections(spec *labeldomain.LabelSpec) []Section {
	layers := make([]string, 0, len(spec.SurfaceLayers))
	for _, layer := range spec.SurfaceLayers {
		layers = append(layers, fmt.Sprintf("%d: %s", layer.Layer, value(layer.Material)))
	}

	colorDifference := emptyValue
	if spec.ColorDifferenceValue != nil {
		colorDifference = fmt.Sprintf("%s %s", value(spec.ColorDifferenceMethod), spec.ColorDifferenceValue.String())
	}

	return []Section{
		{Title: "Label", Fields: []Field{
			{"Name", value(spec.LabelName)},
			{"Library code", value(spec.LibraryCode)},
			{"Customer code", value(spec.CustomerCode)},
			{"Size (mm)", fmt.Sprintf("%s x %s", spec.SizeWidth.String(), spec.SizeHeight.String())},
			{"Shape", value(derive.ResolveOther(spec.Shape, spec.ShapeOther))},
			{"Release direction", value(derive.ResolveOther(spec.ReleaseDirection, spec.ReleaseDirectionOther))},
			{"Label types", list(derive.ResolveOtherList(spec.LabelTypes, spec.LabelTypesOther))},
			{"Environments", list(derive.ResolveOtherList(spec.UseEnvironments, spec.UseEnvironmentsOther))},
			{"Adhesion surface", value(derive.ResolveOther(spec.AdhesionSurface, spec.AdhesionSurfaceOther))},
		}},
		{Title: "Material", Fields: []Field{
			{"Surface layers", list(layers)},
			{"Thickness", value(spec.Thickness)},
			{"Color", value(spec.Color)},
			{"Adhesives", list(spec.Adhesives)},
			{"Liners", list(spec.Liners)},
		}},
		{Title: "Print", Fields: []Field{
			{"Methods", list(derive.ResolveOtherList(spec.PrintMethods, spec.PrintMethodsOther))},
			{"Spot colors", fmt.Sprintf("%d", spec.SpotColorCount)},
			{"Pantone", list(spec.PantoneColors)},
			{"Hot foil", value(derive.ResolveOther(spec.SpecialPrint.HotFoil, spec.SpecialPrint.HotFoilOther))},
			{"Cold foil", value(derive.ResolveOther(spec.SpecialPrint.ColdFoil, spec.SpecialPrint.ColdFoilOther))},
		}},
		{Title: "Finishing", Fields: []Field{
			{"UV coating", value(derive.ResolveOther(spec.UVCoating, spec.UVCoatingOther))},
			{"Laminating", value(derive.ResolveOther(spec.Laminating, spec.LaminatingOther))},
			{"Die cutting", value(derive.ResolveOther(spec.DieCutting, spec.DieCuttingOther))},
			{"Precision", value(spec.CuttingPrecision)},
			{"Other", value(spec.OtherProcessing)},
		}},
		{Title: "Quality & packaging", Fields: []Field{
			{"Inspection", list(derive.ResolveOtherList(spec.InspectionItems, spec.InspectionItemsOther))},
			{"Color difference", colorDifference},
			{"Grade", value(spec.QualityGrade)},
			{"Packaging", value(derive.ResolveOther(spec.PackagingMethod, spec.PackagingMethodOther))},
			{"Labels per sheet", fmt.Sprintf("%d", spec.LabelsPerSheet)},
			{"Sheets per bundle", fmt.Sprintf("%d", spec.SheetsPerBundle)},
		}},
	}
}

func value(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return emptyValue
	}
	return s
}

func list(values []string) string {
	return value(strings.Join(values, ", "))
}

func date(t *time.Time) string {
	if t == nil {
		return emptyValue
	}
	return t.Format("2006-01-02")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
