package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/hdbaza/helpdesk-api/internal/config"
	"github.com/hdbaza/helpdesk-api/internal/database"
	"github.com/hdbaza/helpdesk-api/internal/logger"
	"github.com/hdbaza/helpdesk-api/internal/repository"
	"github.com/hdbaza/helpdesk-api/internal/repository/mongostore"
	"github.com/hdbaza/helpdesk-api/internal/repository/pgstore"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Document Store ───────────────────────────────────────────
	var store *repository.Store
	switch cfg.StorageDriver {
	case config.StorageMongo:
		db, err := database.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer db.Client().Disconnect(context.Background())
		store = mongostore.New(db)
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		store = pgstore.New(pool)
	default:
		fmt.Printf("Error: STORAGE_DRIVER %q has no persistent admin directory\n", cfg.StorageDriver)
		return
	}

	// ─── Initialize Service ────────────────────────────────────────────
	adminService := service.NewAdminService(store.Admins, nil, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Add Helpdesk Admin ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Optional login for AUTH_USERS
	fmt.Print("Enter Username for password login (empty to skip): ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	var entry string
	if username != "" {
		fmt.Print("Enter Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Println("\nError reading password")
			return
		}
		password := string(bytePassword)
		fmt.Println() // Newline after password input
		if len(password) < 6 {
			fmt.Println("Error: Password must be at least 6 characters")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}
		entry = fmt.Sprintf("%s:%s:user:%s", username, hashedPassword, strings.ToLower(email))
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := adminService.Add(ctx, email, name, service.SystemActor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) added with ID: %s\n", admin.Name, admin.Email, admin.ID)
	if entry != "" {
		fmt.Println("\nAppend this entry to AUTH_USERS (entries are separated by ';'):")
		fmt.Println(entry)
	}
}
