// Command hash-gen produces a bcrypt hash for seeding the first staff
// account's password column directly in Postgres.
package main

import (
	"fmt"
	"log"
	"os"

	"blockbustre.backend/pkg/crypto"
)

const defaultSeedPassword = "Registrar.Admin-2026"

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

// resolvePassword prefers the CLI argument, then SEED_ADMIN_PASSWORD,
// then the built-in default.
func resolvePassword(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if env := os.Getenv("SEED_ADMIN_PASSWORD"); env != "" {
		return env
	}
	return defaultSeedPassword
}

func generateHash(password string) (string, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return "", err
	}
	// Round-trip before handing the hash to an operator.
	if !crypto.CheckPassword(password, hash) {
		return "", fmt.Errorf("hash round-trip verification failed")
	}
	return hash, nil
}

func main() {
	password := resolvePassword(os.Args[1:])

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
	}

	printfFn("Password:    %s\n", password)
	printfFn("Bcrypt hash: %s\n", hash)
}
