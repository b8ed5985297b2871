package main

import (
	"context"
	"log"
	"os"

	"go-employee-console/internal/config"
	"go-employee-console/internal/sandbox"
	"go-employee-console/pkg/database"
)

// Usage: reset-password [email] [new-password]
func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	email, password := sandbox.AdminEmail, sandbox.AdminPassword
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}

	// 3. Hash and store the new password
	if err := sandbox.NewStore(db).ResetPassword(context.Background(), email, password); err != nil {
		log.Fatalf("❌ Failed to reset password for %s: %v", email, err)
	}

	log.Printf("✅ Success! Password for %s has been reset to: %s", email, password)
}
