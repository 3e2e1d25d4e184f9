package pricenow

// Attribute wraps the upstream's single-value attribute objects.
type Attribute struct {
	Value string `json:"value"`
}

type ProductDefinition struct {
	ID         *int64 `json:"id"`
	Attributes struct {
		Age      Attribute `json:"age"`
		Duration Attribute `json:"duration"`
	} `json:"attributes"`
}

// CatalogProduct is one top-level catalog entry (e.g. skitickets, wintercard)
// grouping the sellable product definitions.
type CatalogProduct struct {
	Name               string              `json:"name"`
	ProductDefinitions []ProductDefinition `json:"productDefinitions"`
}

type CatalogResponse struct {
	Data []CatalogProduct `json:"data"`
}

// PriceChange is one sparse change event: the price becomes Price effective
// ValidAt and stays there until superseded. Pointer fields because the source
// does not guarantee non-null values.
type PriceChange struct {
	ProductDefinitionID *int64 `json:"productDefinitionId"`
	ValidAt             string `json:"validAt"` // YYYY-MM-DD
	Price               *int64 `json:"price"`
}
