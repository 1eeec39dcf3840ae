package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/models"
)

// Authorization decisions live here as pure functions over actor role and
// resource ownership, so they are testable without any transport.

// CanManageCatalog reports whether the role may create products at all.
func CanManageCatalog(r models.Role) bool {
	return r == models.RoleVendor || r == models.RoleAdmin
}

// CanWriteProduct reports whether actor may update or delete a product
// owned by vendorID. Vendors are restricted to their own items.
func CanWriteProduct(actor *models.User, vendorID primitive.ObjectID) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVendor:
		return actor.ID == vendorID
	}
	return false
}

// CanViewOrder reports whether actor may read an order owned by buyerID.
// vendorHasLine must be true when at least one line item's product belongs
// to the acting vendor.
func CanViewOrder(actor *models.User, buyerID primitive.ObjectID, vendorHasLine bool) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleBuyer:
		return actor.ID == buyerID
	case models.RoleVendor:
		return vendorHasLine
	}
	return false
}
