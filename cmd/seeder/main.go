// cmd/seeder/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedFiles := []string{
		"seed/schema.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	seedBootstrapAdmin(db)

	fmt.Println("Database seeding completed successfully!")
}

// seedBootstrapAdmin inserts the default org, admin role, and superuser so a
// fresh deployment has a working login. Idempotent via ON CONFLICT DO NOTHING.
func seedBootstrapAdmin(db *sql.DB) {
	orgID := "org_" + uuid.NewString()[:8]
	_, err := db.Exec(`
		INSERT INTO organizations (id, code, name, description, status, created_at, created_by, modified_at, modified_by)
		VALUES ($1, 'default', 'Default Organization', 'Bootstrap organization', 'active', NOW(), 'seeder', NOW(), 'seeder')
		ON CONFLICT (code) DO NOTHING
	`, orgID)
	if err != nil {
		log.Fatalf("failed to seed organization: %v", err)
	}

	// NULL org_id never trips the (name, org_id) unique constraint, so guard
	// the global admin role explicitly.
	roleID := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO roles (id, name, description, org_id, permissions, status, created_at, created_by, modified_at, modified_by)
		SELECT $1, 'admin', 'Full access', NULL, '{"read":["*"],"write":["*"]}', 'active', NOW(), 'seeder', NOW(), 'seeder'
		WHERE NOT EXISTS (SELECT 1 FROM roles WHERE name='admin' AND org_id IS NULL)
	`, roleID)
	if err != nil {
		log.Fatalf("failed to seed role: %v", err)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, first_name, last_name, email, mobile_number, hashed_password,
			organization_id, role_id, status, is_superuser, created_at, created_by, modified_at, modified_by)
		SELECT $1, 'Admin', 'User', 'admin@voicebridge.local', '', $2,
			NULL, r.id, 'active', true, NOW(), 'seeder', NOW(), 'seeder'
		FROM roles r WHERE r.name = 'admin' AND r.org_id IS NULL
		ON CONFLICT (email) DO NOTHING
	`, uuid.NewString(), string(hashed))
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	fmt.Println("Seeded bootstrap admin user")
}
