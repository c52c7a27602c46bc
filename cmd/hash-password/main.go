package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/config"
)

func main() {
	cfg := config.Load()

	var username, role, email string
	var cost int
	flag.StringVar(&username, "user", "", "Username; when set a full AUTH_USERS entry is printed")
	flag.StringVar(&role, "role", string(auth.RoleUser), "Role for the entry: user or admin")
	flag.StringVar(&email, "email", "", "Optional email for the entry")
	flag.IntVar(&cost, "cost", cfg.BcryptCost, "bcrypt cost")
	flag.Parse()

	if _, err := auth.ParseRole(role); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Password
	fmt.Fprint(os.Stderr, "Enter Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	fmt.Fprint(os.Stderr, "Repeat Password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if string(first) != string(second) {
		fmt.Fprintln(os.Stderr, "Error: Passwords do not match")
		os.Exit(1)
	}
	if len(first) < 6 {
		fmt.Fprintln(os.Stderr, "Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(first, cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if username == "" {
		fmt.Println(string(hash))
		return
	}
	entry := fmt.Sprintf("%s:%s:%s", username, hash, role)
	if email != "" {
		entry += ":" + email
	}
	fmt.Println(entry)
}
