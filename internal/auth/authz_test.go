package auth

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/models"
)

func TestCanManageCatalog(t *testing.T) {
	cases := []struct {
		role models.Role
		want bool
	}{
		{models.RoleBuyer, false},
		{models.RoleVendor, true},
		{models.RoleAdmin, true},
	}
	for _, tc := range cases {
		if got := CanManageCatalog(tc.role); got != tc.want {
			t.Errorf("CanManageCatalog(%s) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestCanWriteProduct(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	cases := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"admin always", &models.User{ID: other, Role: models.RoleAdmin}, true},
		{"owning vendor", &models.User{ID: owner, Role: models.RoleVendor}, true},
		{"other vendor", &models.User{ID: other, Role: models.RoleVendor}, false},
		{"buyer never", &models.User{ID: owner, Role: models.RoleBuyer}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanWriteProduct(tc.actor, owner); got != tc.want {
				t.Errorf("CanWriteProduct = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanViewOrder(t *testing.T) {
	buyer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	cases := []struct {
		name          string
		actor         *models.User
		vendorHasLine bool
		want          bool
	}{
		{"admin", &models.User{ID: other, Role: models.RoleAdmin}, false, true},
		{"owning buyer", &models.User{ID: buyer, Role: models.RoleBuyer}, false, true},
		{"other buyer", &models.User{ID: other, Role: models.RoleBuyer}, false, false},
		{"vendor with line", &models.User{ID: other, Role: models.RoleVendor}, true, true},
		{"vendor without line", &models.User{ID: other, Role: models.RoleVendor}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewOrder(tc.actor, buyer, tc.vendorHasLine); got != tc.want {
				t.Errorf("CanViewOrder = %v, want %v", got, tc.want)
			}
		})
	}
}
