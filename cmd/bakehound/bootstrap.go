package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bakehound/internal/store"
)

func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	usersTableExists, err := tableExists(ctx, db, "users")
	if err != nil {
		return fmt.Errorf("check users table: %w", err)
	}
	if !usersTableExists {
		return nil
	}

	user, err := ensureDemoUser(ctx, dataStore, db)
	if err != nil {
		return err
	}
	return ensureDemoBakeries(ctx, db, dataStore, user)
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store, db *sql.DB) (store.User, error) {
	const email = "demo@bakehound.dev"

	user, err := dataStore.CreateUser(ctx, email, "demo", "demo123")
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserExists) {
		return store.User{}, fmt.Errorf("bootstrap demo user: %w", err)
	}

	if err := db.QueryRowContext(ctx, `
		SELECT id, email, username, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Username, &user.CreatedAt); err != nil {
		return store.User{}, fmt.Errorf("lookup demo user: %w", err)
	}
	return user, nil
}

func ensureDemoBakeries(ctx context.Context, db *sql.DB, dataStore *store.Store, user store.User) error {
	bakeriesTableExists, err := tableExists(ctx, db, "bakeries")
	if err != nil {
		return fmt.Errorf("check bakeries table: %w", err)
	}
	if !bakeriesTableExists {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM bakeries
		WHERE created_by = $1
	`, user.ID).Scan(&count); err != nil {
		return fmt.Errorf("count demo bakeries: %w", err)
	}
	if count > 0 {
		return nil
	}

	price := func(v float64) *float64 { return &v }

	seed := []store.Bakery{
		{
			Name:         "Le Fournil de Sophie",
			City:         "Lyon",
			Specialties:  "Sourdough, croissants",
			AveragePrice: price(3.5),
			OpeningHours: "7:00-19:00",
			Status:       "open",
		},
		{
			Name:         "Boulangerie du Marché",
			City:         "Paris",
			Specialties:  "Baguette tradition, éclairs",
			AveragePrice: price(4.2),
			OpeningHours: "6:30-20:00",
			Status:       "open",
		},
		{
			Name:         "The Corner Bakehouse",
			City:         "Bordeaux",
			Specialties:  "Rye loaves, cinnamon rolls",
			AveragePrice: price(5.0),
			OpeningHours: "8:00-18:00",
			Status:       "closed",
		},
	}

	for _, b := range seed {
		if _, err := dataStore.CreateBakery(ctx, b, user.ID); err != nil {
			return fmt.Errorf("seed bakery %q: %w", b.Name, err)
		}
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	return exists, err
}
