package ghl

// Contact is the full contact profile returned by the GHL contacts API.
// Custom field values arrive untyped: bare strings, JSON-encoded strings,
// or nested file-upload objects.
type Contact struct {
	ID           string               `json:"id"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	DateOfBirth  string               `json:"dateOfBirth"`
	Address1     string               `json:"address1"`
	City         string               `json:"city"`
	State        string               `json:"state"`
	PostalCode   string               `json:"postalCode"`
	Gender       string               `json:"gender"`
	LocationID   string               `json:"locationId"`
	CustomFields []ContactCustomField `json:"customFields"`
}

// ContactCustomField is a custom field value attached to a contact.
// The field carries only the definition id; human labels come from the
// location's custom field catalog.
type ContactCustomField struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// CustomFieldDefinition is an entry from the location-scoped field catalog,
// used to map contact field ids onto human-readable labels.
type CustomFieldDefinition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FieldKey string `json:"fieldKey"`
}

type contactResponse struct {
	Contact Contact `json:"contact"`
}

type customFieldsResponse struct {
	CustomFields []CustomFieldDefinition `json:"customFields"`
}
