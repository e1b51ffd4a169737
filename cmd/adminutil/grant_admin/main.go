package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/workhive/workhive/internal/config"
	"github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/logger"
)

// Admin accounts are never created through signup. This utility grants
// the role to an existing user directly in the database.
func main() {
	email := flag.String("email", "", "Email of the user to grant the admin role")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/grant_admin/main.go -email user@example.com")
	}

	logger.Init()
	config.Load()
	db.Init()

	ct, err := db.Conn.Exec(context.Background(), `UPDATE users SET role = 'admin' WHERE email = $1`, *email)
	if err != nil {
		log.Fatalf("failed to grant admin role: %v", err)
	}
	if ct.RowsAffected() == 0 {
		log.Fatalf("no user found with email: %s", *email)
	}

	fmt.Printf("User %s granted the admin role.\n", *email)
}
