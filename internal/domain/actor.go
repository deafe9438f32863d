package domain

// Actor is the caller of a workflow operation as resolved by the session layer.
// A nil *Actor means the caller is not authenticated.
type Actor struct {
	Subject         string
	IsAdministrator bool
}

// CanManageProducts reports whether actor may create, edit or delete products.
func CanManageProducts(actor *Actor) bool {
	return actor != nil && actor.IsAdministrator
}
