package seeder

import (
	"context"
	"strings"

	"helperhub/internal/database"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type demoAccount struct {
	Email      string
	First      string
	Last       string
	Phone      string
	City       string
	Role       user.Role
	Categories []string
	Experience string
	Bio        string
}

var demoAccounts = []demoAccount{
	{Email: "employer@helperhub.dev", First: "Maya", Last: "Patel", Phone: "555-0101", City: "Austin", Role: user.RoleEmployer},
	{Email: "family@helperhub.dev", First: "Tom", Last: "Reyes", Phone: "555-0102", City: "Denver", Role: user.RoleEmployer},
	{Email: "ana@helperhub.dev", First: "Ana", Last: "Cruz", Phone: "555-0201", City: "Austin", Role: user.RoleJobSeeker, Categories: []string{"cook", "maid"}, Experience: "expert", Bio: "Home cooking and weekly cleaning."},
	{Email: "li@helperhub.dev", First: "Li", Last: "Wong", Phone: "555-0202", City: "Austin", Role: user.RoleJobSeeker, Categories: []string{"babysitter"}, Experience: "intermediate", Bio: "CPR certified, evenings and weekends."},
	{Email: "sam@helperhub.dev", First: "Sam", Last: "Okafor", Phone: "555-0203", City: "Denver", Role: user.RoleJobSeeker, Categories: []string{"gardener", "handyman"}, Experience: "beginner", Bio: "Yard work and small repairs."},
	{Email: "rosa@helperhub.dev", First: "Rosa", Last: "Diaz", Phone: "555-0204", City: "Denver", Role: user.RoleJobSeeker, Categories: []string{"caregiver", "petcare"}, Experience: "expert", Bio: "Elderly care with a love for dogs."},
}

// AccountsSeeder inserts demo users with their role bucket and profile.
// Existing emails are left untouched.
type AccountsSeeder struct {
	Password string
}

func (AccountsSeeder) Name() string { return "accounts" }

func (s AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, columnSet{
		"users":       {"id", "email", "password_hash", "display_name", "phone"},
		"employers":   {"user_id", "name", "email", "phone"},
		"job_seekers": {"user_id", "name", "email", "phone"},
		"profiles":    {"user_id", "role", "selected_categories", "experience_level"},
	}); err != nil {
		return err
	}

	password := s.Password
	if strings.TrimSpace(password) == "" {
		password = "helperhub-demo"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		return insertAccounts(ctx, tx, string(hash))
	})
}

func insertAccounts(ctx context.Context, tx database.Tx, hash string) error {
	for _, a := range demoAccounts {
		id := uuid.New()
		name := a.First + " " + a.Last
		affected, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, email, password_hash, display_name, phone) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING`,
			id, a.Email, hash, name, a.Phone,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			continue
		}

		bucket := "employers"
		if a.Role == user.RoleJobSeeker {
			bucket = "job_seekers"
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO `+bucket+` (user_id, name, email, phone) VALUES ($1, $2, $3, $4)`,
			id, name, a.Email, a.Phone,
		); err != nil {
			return err
		}

		cats := a.Categories
		if cats == nil {
			cats = []string{}
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO profiles (user_id, first_name, last_name, email, phone, city, bio, role, selected_categories, experience_level)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, a.First, a.Last, a.Email, a.Phone, a.City, a.Bio, string(a.Role), cats, a.Experience,
		); err != nil {
			return err
		}
	}

	return nil
}
