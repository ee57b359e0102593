package knowledge

// Scope restricts which documents a request may see.
// A nil field means "no restriction" on that axis, which is not the same as
// "only documents whose owner is null".
type Scope struct {
	OrganizationID *string
	EventID        *string
}

// Allows reports whether doc is visible under the scope.
// Documents without an owner on an axis are global on that axis.
func (s Scope) Allows(doc *Document) bool {
	return allows(s.OrganizationID, doc.organizationID) && allows(s.EventID, doc.eventID)
}

// Eligible reports whether doc is both retrievable and visible under the scope.
func (s Scope) Eligible(doc *Document) bool {
	return doc.status.Retrievable() && s.Allows(doc)
}

func allows(filter, owner *string) bool {
	if filter == nil || owner == nil {
		return true
	}
	return *filter == *owner
}
