package catalog

import "infra-object-service/internal/confidence"

// Validation types known to the default catalog.
const (
	ValidationFireSafety    = "fire_safety"
	ValidationCompliance    = "compliance"
	ValidationElectrical    = "electrical"
	ValidationStructural    = "structural"
	ValidationAccessibility = "accessibility"
	ValidationTechnical     = "technical"
	ValidationVisual        = "visual"
)

var defaultValidationTypes = []string{
	ValidationFireSafety, ValidationCompliance, ValidationElectrical, ValidationStructural,
	ValidationAccessibility, ValidationTechnical, ValidationVisual,
}

var defaultEntries = []Entry{
	{Category: "FIRE_SAFETY", Type: "FIRE_EXTINGUISHER", DisplayName: "Fire extinguisher", Color: "#d32f2f",
		Criticality: confidence.CriticalityCritical, RequiredValidations: []string{ValidationFireSafety, ValidationCompliance}},
	{Category: "FIRE_SAFETY", Type: "FIRE_ALARM", DisplayName: "Fire alarm", Color: "#e53935",
		Criticality: confidence.CriticalityCritical, RequiredValidations: []string{ValidationFireSafety, ValidationCompliance}},
	{Category: "FIRE_SAFETY", Type: "SMOKE_DETECTOR", DisplayName: "Smoke detector", Color: "#f44336",
		Criticality: confidence.CriticalityHigh, RequiredValidations: []string{ValidationFireSafety}},
	{Category: "FIRE_SAFETY", Type: "SPRINKLER", DisplayName: "Sprinkler", Color: "#ef5350",
		Criticality: confidence.CriticalityHigh, RequiredValidations: []string{ValidationFireSafety, ValidationTechnical}},
	{Category: "FIRE_SAFETY", Type: "EMERGENCY_EXIT", DisplayName: "Emergency exit", Color: "#43a047",
		Criticality: confidence.CriticalityCritical, RequiredValidations: []string{ValidationFireSafety, ValidationAccessibility}},

	{Category: "ELECTRICAL", Type: "OUTLET", DisplayName: "Outlet", Color: "#fbc02d",
		Criticality: confidence.CriticalityLow, RequiredValidations: []string{ValidationElectrical}},
	{Category: "ELECTRICAL", Type: "SWITCH", DisplayName: "Switch", Color: "#fdd835",
		Criticality: confidence.CriticalityLow, RequiredValidations: []string{ValidationElectrical}},
	{Category: "ELECTRICAL", Type: "LIGHT_FIXTURE", DisplayName: "Light fixture", Color: "#ffee58",
		Criticality: confidence.CriticalityNone},
	{Category: "ELECTRICAL", Type: "ELECTRICAL_PANEL", DisplayName: "Electrical panel", Color: "#f9a825",
		Criticality: confidence.CriticalityHigh, RequiredValidations: []string{ValidationElectrical, ValidationCompliance}},

	{Category: "ARCHITECTURAL", Type: "DOOR", DisplayName: "Door", Color: "#6d4c41",
		Criticality: confidence.CriticalityMedium, RequiredValidations: []string{ValidationVisual}},
	{Category: "ARCHITECTURAL", Type: "WINDOW", DisplayName: "Window", Color: "#8d6e63",
		Criticality: confidence.CriticalityLow},
	{Category: "ARCHITECTURAL", Type: "STAIRS", DisplayName: "Stairs", Color: "#5d4037",
		Criticality: confidence.CriticalityMedium, RequiredValidations: []string{ValidationStructural, ValidationAccessibility}},
	{Category: "ARCHITECTURAL", Type: "COLUMN", DisplayName: "Column", Color: "#795548",
		Criticality: confidence.CriticalityMedium, RequiredValidations: []string{ValidationStructural}},

	{Category: "HVAC", Type: "VENT", DisplayName: "Vent", Color: "#1e88e5",
		Criticality: confidence.CriticalityLow},
	{Category: "HVAC", Type: "AIR_HANDLER", DisplayName: "Air handler", Color: "#1565c0",
		Criticality: confidence.CriticalityMedium, RequiredValidations: []string{ValidationTechnical}},

	{Category: "PLUMBING", Type: "VALVE", DisplayName: "Valve", Color: "#00897b",
		Criticality: confidence.CriticalityMedium, RequiredValidations: []string{ValidationTechnical}},
	{Category: "PLUMBING", Type: "DRAIN", DisplayName: "Drain", Color: "#00acc1",
		Criticality: confidence.CriticalityLow},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultValidationTypes, defaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}
