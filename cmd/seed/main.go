package main

import (
	"context"
	"log"
	"time"

	"adx-backend/internal/auth"
	"adx-backend/internal/config"
	"adx-backend/internal/db"
	"adx-backend/internal/projects"
	"adx-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedCategory struct {
	Name        string
	DisplayType string
}

type seedProject struct {
	Title        string
	CategorySlug string
	Location     string
	Year         string
	Layout       string
	Featured     bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)

	seedCategories := []seedCategory{
		{Name: "Residential", DisplayType: "grid-2"},
		{Name: "Commercial", DisplayType: "grid-3"},
		{Name: "Hospitality", DisplayType: "grid-1"},
		{Name: "Interior", DisplayType: "grid-2"},
	}

	categoryIDs := make(map[string]string, len(seedCategories))
	for i, cat := range seedCategories {
		slug := utils.Slugify(cat.Name)
		id := primitive.NewObjectID().Hex()
		filter := bson.M{"slug": slug}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":          id,
				"name":         cat.Name,
				"slug":         slug,
				"display_type": cat.DisplayType,
				"order_index":  i,
				"created_at":   now,
				"updated_at":   now,
			},
		}
		if _, err := cols.Categories.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed category %s: %v", cat.Name, err)
		}

		var existing struct {
			ID string `bson:"_id"`
		}
		if err := cols.Categories.FindOne(ctx, filter).Decode(&existing); err != nil {
			log.Fatalf("seed category lookup %s: %v", cat.Name, err)
		}
		categoryIDs[slug] = existing.ID
	}

	seedProjects := []seedProject{
		{Title: "Lakeside Villa", CategorySlug: "residential", Location: "Da Nang", Year: "2024", Layout: projects.LayoutLandscape, Featured: true},
		{Title: "Riverside Offices", CategorySlug: "commercial", Location: "Ho Chi Minh City", Year: "2023", Layout: projects.LayoutPortrait, Featured: true},
		{Title: "Garden Boutique Hotel", CategorySlug: "hospitality", Location: "Hoi An", Year: "2024", Layout: projects.LayoutLandscape, Featured: true},
		{Title: "Skyline Penthouse", CategorySlug: "interior", Location: "Hanoi", Year: "2025", Layout: projects.LayoutPortrait, Featured: false},
		{Title: "Old Quarter Townhouse", CategorySlug: "residential", Location: "Hanoi", Year: "2022", Layout: projects.LayoutLandscape, Featured: false},
	}

	homeOrder := 0
	for i, proj := range seedProjects {
		var order *int
		if proj.Featured {
			homeOrder++
			n := homeOrder
			order = &n
		}

		filter := bson.M{"title": proj.Title}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"category_id": categoryIDs[proj.CategorySlug],
				"title":       proj.Title,
				"location":    proj.Location,
				"year":        proj.Year,
				"layout":      proj.Layout,
				"images":      []string{},
				"order_index": i,
				"is_featured": proj.Featured,
				"home_order":  order,
				"external_content": bson.M{
					"projectName":      proj.Title,
					"shortDescription": proj.Title + ", " + proj.Location,
				},
				"created_at": now,
				"updated_at": now,
			},
		}
		if _, err := cols.Projects.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed project %s: %v", proj.Title, err)
		}
	}

	contactUpdate := bson.M{
		"$setOnInsert": bson.M{
			"_id":            primitive.NewObjectID().Hex(),
			"email":          "studio@example.com",
			"hotline":        "0900 000 000",
			"office_address": "45 Le Loi, District 1, Ho Chi Minh City",
			"updated_at":     now,
		},
	}
	if _, err := cols.ContactInfo.UpdateOne(ctx, bson.M{}, contactUpdate, options.Update().SetUpsert(true)); err != nil {
		log.Fatalf("seed contact info: %v", err)
	}

	historyEntries := []bson.M{
		{"year": "2015", "title": "Studio founded", "description": "Two architects, one borrowed office."},
		{"year": "2019", "title": "First international award", "description": "Recognition for the Hoi An resort masterplan."},
		{"year": "2023", "title": "Fifty built projects", "description": "Across residential, commercial and hospitality work."},
	}
	for i, entry := range historyEntries {
		filter := bson.M{"year": entry["year"], "title": entry["title"]}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"year":        entry["year"],
				"title":       entry["title"],
				"description": entry["description"],
				"order_index": i,
				"created_at":  now,
				"updated_at":  now,
			},
		}
		if _, err := cols.History.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed history %v: %v", entry["title"], err)
		}
	}

	partners := []string{"Concrete Works", "Lumina Lighting", "GreenRoof Co"}
	for i, name := range partners {
		filter := bson.M{"name": name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"name":        name,
				"logo_url":    "https://cdn.example.com/partners/" + utils.Slugify(name) + ".png",
				"order_index": i,
				"is_active":   true,
				"created_at":  now,
				"updated_at":  now,
			},
		}
		if _, err := cols.TrustedPartners.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed partner %s: %v", name, err)
		}
	}

	if cfg.AdminPassword != "" {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		adminUpdate := bson.M{
			"$setOnInsert": bson.M{
				"_id":           primitive.NewObjectID().Hex(),
				"username":      cfg.AdminUser,
				"password_hash": hash,
				"created_at":    now,
				"updated_at":    now,
			},
		}
		if _, err := cols.Admins.UpdateOne(ctx, bson.M{"username": cfg.AdminUser}, adminUpdate, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed admin %s: %v", cfg.AdminUser, err)
		}
	} else {
		log.Println("seed admin: ADMIN_PASSWORD missing, skipping")
	}

	log.Println("seed completed")
}
