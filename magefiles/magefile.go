//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const migrationsDir = "./db/migrations"

// binaries maps output names to their main packages.
var binaries = map[string]string{
	"wages-server": "./cmd/server",
	"wagesgen":     "./cmd/wagesgen",
}

// Dbup runs dbmate to apply db migrations. Set DATABASE_URL, e.g.
// sqlite:wages.db or postgres://user@host/wages?sslmode=disable.
func Dbup() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	fmt.Println(">> dbmate up")
	return sh.Run("dbmate", "--migrations-dir", migrationsDir, "up")
}

// Build tidies deps, then compiles both binaries into ./bin.
func Build() error {
	mg.Deps(Tidy)
	for name, pkg := range binaries {
		fmt.Println(">> Building", name, "...")
		if err := sh.Run("go", "build", "-o", "bin/"+name, pkg); err != nil {
			return err
		}
	}
	return nil
}

// Run builds then executes the server.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server ...")
	return sh.Run("./bin/wages-server")
}

// Dev starts the server via go run and stops it on Ctrl-C.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	return server.Process.Kill()
}

// Template writes the blank employee workbook to EmployeeTemplate.xlsx.
func Template() error {
	return sh.RunV("go", "run", "./cmd/wagesgen", "template", "EmployeeTemplate.xlsx")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.Remove("wages.db")
	return os.RemoveAll("bin")
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Test)
	for _, pkg := range binaries {
		if err := sh.Run("go", "install", pkg); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
