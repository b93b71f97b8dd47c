package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/db"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.User{}, &model.RefreshToken{}, &model.SellerProfile{}, &model.BuyerProfile{},
		&model.Category{}, &model.Product{}, &model.RFQ{}, &model.Trade{},
		&model.ChatRoom{}, &model.ChatMessage{}, &model.MessageReaction{},
		&model.Review{}, &model.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := gdb.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		admin := &model.User{Email: "admin@tradebridge.test", Name: "Marketplace Admin", Role: model.RoleAdmin}
		if err := admin.SetPassword("admin-password"); err != nil {
			return err
		}
		seller := &model.User{Email: "seller@tradebridge.test", Name: "Acme Industrial", Role: model.RoleSeller}
		if err := seller.SetPassword("seller-password"); err != nil {
			return err
		}
		buyer := &model.User{Email: "buyer@tradebridge.test", Name: "Globex Procurement", Role: model.RoleBuyer}
		if err := buyer.SetPassword("buyer-password"); err != nil {
			return err
		}
		for _, u := range []*model.User{admin, seller, buyer} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&model.SellerProfile{
			UserID:       seller.ID,
			BusinessName: "Acme Industrial Supplies Pvt Ltd",
			BusinessType: "manufacturer",
			TaxID:        "29ABCDE1234F1Z5",
			Address:      "14 Industrial Estate, Pune",
			Verified:     true,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.BuyerProfile{
			UserID:          buyer.ID,
			ShippingAddress: "88 Harbor Road",
			City:            "Rotterdam",
			Country:         "Netherlands",
			PostalCode:      "3011",
		}).Error; err != nil {
			return err
		}

		categories := []model.Category{
			{Slug: "industrial-fasteners", Name: "Industrial Fasteners"},
			{Slug: "packaging", Name: "Packaging"},
			{Slug: "textiles", Name: "Textiles"},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}

		products := []model.Product{
			{
				SellerID:        seller.ID,
				Name:            "Hex Bolts M12 Grade 8.8",
				CategorySlug:    "industrial-fasteners",
				Description:     "Zinc-plated hex bolts, bulk packed.",
				Price:           1250,
				Quantity:        50000,
				HSNCode:         "73181500",
				CountryOfSource: "India",
				Status:          model.ProductStatusActive,
			},
			{
				SellerID:     seller.ID,
				Name:         "Corrugated Shipping Boxes 60x40",
				CategorySlug: "packaging",
				Description:  "Double-wall corrugated boxes.",
				Price:        95,
				Quantity:     20000,
				HSNCode:      "48191010",
				Status:       model.ProductStatusPending,
			},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		rfq := &model.RFQ{
			BuyerID:       buyer.ID,
			ProductID:     products[0].ID,
			Quantity:      5000,
			PaymentTerms:  `[{"stage":"advance","percent":30},{"stage":"on_delivery","percent":70}]`,
			DeliveryTerms: "FOB Rotterdam, 6 weeks",
			Status:        model.RFQStatusPending,
		}
		if err := tx.Create(rfq).Error; err != nil {
			return err
		}

		log.Printf("seeded admin=%d seller=%d buyer=%d products=%d rfq=%d",
			admin.ID, seller.ID, buyer.ID, len(products), rfq.ID)
		return nil
	})
}
