// Seeds the database with one account per role and a starter catalog.
// Wipes the users and products collections first.
package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/config"
	"bazaar-backend/internal/logging"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store/mongostore"
)

func main() {
	cfg := config.Load()
	log := logging.New("bazaar-seed")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	if _, err := db.Collection("users").DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatal("failed to clear users", zap.Error(err))
	}
	if _, err := db.Collection("products").DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatal("failed to clear products", zap.Error(err))
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("index creation failed", zap.Error(err))
	}
	stores := mongostore.New(db)

	seedUser(ctx, log, stores, "Admin User", "admin@example.com", "admin123", models.RoleAdmin,
		models.Profile{Address: "123 Admin Street", Phone: "123-456-7890"})
	vendor := seedUser(ctx, log, stores, "Vendor User", "vendor@example.com", "vendor123", models.RoleVendor,
		models.Profile{Address: "456 Vendor Avenue", Phone: "234-567-8901"})
	seedUser(ctx, log, stores, "Buyer User", "buyer@example.com", "buyer123", models.RoleBuyer,
		models.Profile{Address: "789 Buyer Road", Phone: "345-678-9012"})

	products := []models.Product{
		{
			Title:       "Laptop Computer",
			Description: "High-performance laptop with 16GB RAM and 512GB SSD",
			Price:       999.99,
			Stock:       10,
			Images:      []string{"https://example.com/laptop1.jpg", "https://example.com/laptop2.jpg"},
			Category:    "Electronics",
			VendorID:    vendor.ID,
		},
		{
			Title:       "Wireless Mouse",
			Description: "Ergonomic wireless mouse with long battery life",
			Price:       29.99,
			Stock:       50,
			Images:      []string{"https://example.com/mouse1.jpg"},
			Category:    "Electronics",
			VendorID:    vendor.ID,
		},
		{
			Title:       "Mechanical Keyboard",
			Description: "RGB mechanical keyboard with hot-swappable switches",
			Price:       89.99,
			Stock:       25,
			Images:      []string{"https://example.com/keyboard1.jpg"},
			Category:    "Electronics",
			VendorID:    vendor.ID,
		},
		{
			Title:       "Coffee Mug",
			Description: "Ceramic mug, 350ml, dishwasher safe",
			Price:       12.50,
			Stock:       100,
			Images:      []string{"https://example.com/mug1.jpg"},
			Category:    "Home",
			VendorID:    vendor.ID,
		},
		{
			Title:       "Desk Lamp",
			Description: "LED desk lamp with adjustable brightness",
			Price:       34.00,
			Stock:       40,
			Images:      []string{"https://example.com/lamp1.jpg"},
			Category:    "Home",
			VendorID:    vendor.ID,
		},
	}
	for i := range products {
		if err := stores.Products.Insert(ctx, &products[i]); err != nil {
			log.Fatal("failed to seed product", zap.String("title", products[i].Title), zap.Error(err))
		}
		log.Info("product seeded", zap.String("title", products[i].Title))
	}

	log.Info("seeding complete")
}

func seedUser(ctx context.Context, log *zap.Logger, stores *mongostore.Stores, name, email, password string, role models.Role, profile models.Profile) *models.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Profile:      profile,
	}
	if err := stores.Users.Insert(ctx, u); err != nil {
		log.Fatal("failed to seed user", zap.String("email", email), zap.Error(err))
	}
	log.Info("user seeded", zap.String("email", email), zap.String("role", string(role)))
	return u
}
