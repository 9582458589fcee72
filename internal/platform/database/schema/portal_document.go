package schema

// PortalDocumentTable represents the 'portal.document' table
type PortalDocumentTable struct {
	Table      string
	Collection string
	ID         string
	Data       string
	CreatedAt  string
	UpdatedAt  string
}

// PortalDocument is the schema definition for portal.document
var PortalDocument = PortalDocumentTable{
	Table:      "portal.document",
	Collection: "collection",
	ID:         "id",
	Data:       "data",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t PortalDocumentTable) Columns() []string {
	return []string{t.Collection, t.ID, t.Data, t.CreatedAt, t.UpdatedAt}
}
