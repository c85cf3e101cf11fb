package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// One-off runner for a single SQL file outside the tracked migration flow,
// e.g. a data fix on a dev database:
//
//	go run migrations/apply_patch.go migrations/fix.sql
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: apply_patch <file.sql>")
	}
	_ = godotenv.Load()

	body, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read %s: %v", os.Args[1], err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, string(body)); err != nil {
		log.Fatalf("patch failed: %v", err)
	}
	log.Printf("patch applied: %s", os.Args[1])
}
