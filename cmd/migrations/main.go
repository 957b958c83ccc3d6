package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies every *.up.sql migration in order, or a single named migration when
// one is given as the first argument.
func main() {
	_ = godotenv.Load()

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

	var files []string
	if len(os.Args) > 1 {
		path, err := findMigration(basePath, os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		files = []string{path}
	} else {
		files, err = upMigrations(basePath)
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(basePath, name))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
}

func dbConnString() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"),
		host, port, os.Getenv("POSTGRES_DB"))
}

func findMigration(basePath, name string) (string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.Contains(entry.Name(), name) {
			return entry.Name(), nil
		}
	}
	return "", fmt.Errorf("migration %q not found", name)
}

func upMigrations(basePath string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), "up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
