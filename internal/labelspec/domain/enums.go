package domain

import "github.com/smallbiznis/labelworks/internal/schema"

var (
	Shapes                 = schema.NewEnum("label_shape", "rectangle", "circle", "oval", "irregular", schema.Other)
	ReleaseDirections      = schema.NewEnum("release_direction", "top", "bottom", "left", "right", schema.Other)
	LabelTypes             = schema.NewEnum("label_type", "transparent", "colored", "hologram", "metallic", schema.Other)
	UseEnvironments        = schema.NewEnum("use_environment", "indoor", "outdoor", "frozen", "high_temperature", schema.Other)
	AdhesionSurfaces       = schema.NewEnum("adhesion_surface", "pet", "pp", "pe", "hdpe", "ldpe", "glass", "metal", schema.Other)
	PrintMethods           = schema.NewEnum("print_method", "flexo", "offset", "digital", "screen", "gravure", "letterpress", schema.Other)
	FoilOptions            = schema.NewEnum("foil_option", "none", "gold", "silver", "hologram", schema.Other)
	CoatingOptions         = schema.NewEnum("coating_option", "none", "gloss", "matte", schema.Other)
	DieCuttingMethods      = schema.NewEnum("die_cutting", "half_cut", "die_cut", "laser_cut", schema.Other)
	CuttingPrecisions      = schema.NewEnum("cutting_precision", "0.1", "0.2", "0.3", "0.5")
	InspectionItems        = schema.NewEnum("inspection_item", "visual", InspectionColorManagement, "peel_strength", "dimension", schema.Other)
	ColorDifferenceMethods = schema.NewEnum("color_difference_method", "delta_e_ab", "delta_e_00")
	QualityGrades          = schema.NewEnum("quality_grade", "best", "high", "normal")
	PackagingMethods       = schema.NewEnum("packaging_method", "roll", "sheet", schema.Other)
)

// InspectionColorManagement enables the colour-difference tolerance fields.
const InspectionColorManagement = "color_management"
