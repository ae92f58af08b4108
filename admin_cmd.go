package main

import (
	"context"
	"fmt"
	"os"

	"livraison-telegram/services"
)

// admin add <username> — create or reset an admin account for the HTTP
// API and print the generated password once.
func runAdminCommand(args []string) {
	if len(args) < 2 || args[0] != "add" {
		fmt.Fprintln(os.Stderr, "usage: admin add <username>")
		os.Exit(2)
	}
	username := args[1]
	password, err := services.CreateAdmin(context.Background(), username)
	if err != nil {
		fmt.Fprintln(os.Stderr, "admin add:", err)
		os.Exit(1)
	}
	fmt.Printf("Admin %q created. Password: %s\n", username, password)
}
