package main

import "github.com/intakeflow/intakeflow/schema"

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// builtinForms registers the demo form catalog. The short rental variant is
// derived from the full application with a merge patch.
func builtinForms() (*schema.Registry, error) {
	registry := schema.NewRegistry()

	employment := &schema.Schema{
		ID: "employment_onboarding",
		Fields: []schema.Field{
			{
				ID:          "full_name",
				Type:        schema.TypeText,
				Label:       "full name",
				Description: "Your legal name as it appears on your identity documents.",
				Required:    true,
				Validation:  &schema.Rules{MinLength: intPtr(2), MaxLength: intPtr(80)},
			},
			{
				ID:       "email",
				Type:     schema.TypeEmail,
				Label:    "work email",
				Required: true,
			},
			{
				ID:       "phone",
				Type:     schema.TypePhone,
				Label:    "phone number",
				Required: true,
			},
			{
				ID:       "start_date",
				Type:     schema.TypeDate,
				Label:    "start date",
				Required: true,
			},
			{
				ID:       "employment_status",
				Type:     schema.TypeSelect,
				Label:    "employment status",
				Required: true,
				Options:  []string{"employed", "unemployed", "self-employed", "student"},
			},
			{
				ID:       "employer",
				Type:     schema.TypeText,
				Label:    "current employer",
				Required: true,
				Conditional: &schema.Conditional{
					DependsOn: "employment_status",
					Condition: "equals",
					Value:     "employed",
				},
			},
			{
				ID:         "dependents",
				Type:       schema.TypeNumber,
				Label:      "number of dependents",
				Required:   false,
				Validation: &schema.Rules{Min: floatPtr(0), Max: floatPtr(20)},
			},
		},
	}
	if err := registry.Register(employment); err != nil {
		return nil, err
	}

	rental := &schema.Schema{
		ID: "rental_application",
		Fields: []schema.Field{
			{
				ID:          "current_address",
				Type:        schema.TypeAddress,
				Label:       "current address",
				Description: "Your current residential address, including street, city and ZIP code.",
				Required:    true,
			},
			{
				ID:       "employer_name",
				Type:     schema.TypeText,
				Label:    "current employer",
				Required: true,
			},
			{
				ID:         "monthly_income",
				Type:       schema.TypeNumber,
				Label:      "gross monthly income",
				Required:   true,
				Validation: &schema.Rules{Min: floatPtr(0)},
			},
			{
				ID:       "has_pets",
				Type:     schema.TypeBoolean,
				Label:    "Do you have pets",
				Required: true,
			},
			{
				ID:       "pet_description",
				Type:     schema.TypeText,
				Label:    "pet description",
				Required: true,
				Conditional: &schema.Conditional{
					DependsOn: "has_pets",
					Condition: "equals",
					Value:     true,
				},
			},
		},
	}
	if err := registry.Register(rental); err != nil {
		return nil, err
	}

	// Income-only prescreen: same form minus the pet questions.
	prescreen := []byte(`{
		"fields": [
			{"id": "current_address", "type": "address", "label": "current address", "required": true},
			{"id": "employer_name", "type": "text", "label": "current employer", "required": true},
			{"id": "monthly_income", "type": "number", "label": "gross monthly income", "required": true, "validation": {"min": 0}}
		]
	}`)
	if err := registry.RegisterVariant("rental_prescreen", "rental_application", prescreen); err != nil {
		return nil, err
	}

	return registry, nil
}
