package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"

	"inkwell/app/auth"
	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/routes"
)

// Run dispatches CLI subcommands
func Run(args []string) {
	if len(args) < 1 {
		printHelp()
		os.Exit(1)
	}

	cfg := config.Load()

	cmd := args[0]
	switch cmd {
	case "serve":
		serve(cfg)
	case "admin":
		adminCommand(cfg, args[1:])
	case "init":
		initDb(cfg)
	case "clean":
		clean(cfg)
	case "backup":
		backup(cfg)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			os.Exit(1)
		}
		restore(cfg, args[1])
	case "help":
		printHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

// printHelp prints usage for all subcommands
func printHelp() {
	helpText := `Usage: inkwell <command> [options]

Commands:
  serve                             Run the blog API server
  admin create <username> <password>  Seed an admin user
  init                              Initialize a new empty database
  clean                             Remove the database
  backup                            Create a backup of the database
  restore <file>                    Restore database from backup
  help                              Display this help message
`
	fmt.Println(helpText)
}

// serve starts the API server
func serve(cfg config.Config) {
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required to serve")
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath))
	if err != nil {
		log.Fatalf("Failed to open Badger DB: %v", err)
	}
	defer db.Close()

	router := routes.SetupRoutes(db, cfg)
	handler := routes.WithCORS(router, cfg.CORSAllowedOrigins)

	log.Printf("Starting blog API on port %s", cfg.Port)
	if err := routes.StartServer(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// adminCommand seeds admin users out of band; the API has no signup.
func adminCommand(cfg config.Config, args []string) {
	if len(args) < 3 || args[0] != "create" {
		fmt.Println("Usage: inkwell admin create <username> <password>")
		os.Exit(1)
	}
	username, password := args[1], args[2]

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath))
	if err != nil {
		log.Fatalf("Failed to open Badger DB: %v", err)
	}
	defer db.Close()

	users := repositories.NewBadgerUserRepository(db)
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := user.Validate(); err != nil {
		log.Fatalf("Invalid username: %v", err)
	}
	if err := users.Create(user); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	fmt.Printf("Admin user %q created (id %d)\n", user.Username, user.ID)
}

// initDb initializes a new empty database
func initDb(cfg config.Config) {
	if _, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	fmt.Println("Database initialized successfully")
}

// clean removes the database
func clean(cfg config.Config) {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	fmt.Print("Are you sure you want to clean the database? This cannot be undone. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(cfg.DBPath); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned successfully")
}

// backup creates a backup of the database
func backup(cfg config.Config) {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return
	}

	backupDir := "data/backups"
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		log.Fatalf("Failed to create backup directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		log.Fatalf("Failed to create backup file: %v", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		log.Fatalf("Failed to backup database: %v", err)
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
}

// restore restores the database from a backup
func restore(cfg config.Config, backupFile string) {
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return
	}

	if _, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Print("Existing database found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return
		}
		if err := os.RemoveAll(cfg.DBPath); err != nil {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		log.Fatalf("Failed to open backup file: %v", err)
	}
	defer f.Close()

	if err := db.Load(f, 4); err != nil {
		log.Fatalf("Failed to restore database: %v", err)
	}

	fmt.Println("Database restored successfully")
}
