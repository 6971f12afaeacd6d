// Package main writes a starter database with a sample catalog and a root
// admin account. The generated root password is printed once to stdout.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/domain/category"
	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/domain/settings"
	"github.com/docuforge/doc_portal/internal/storage"
)

func main() {
	var (
		out      = flag.String("out", "data/db.json", "Path of the database file to create")
		username = flag.String("username", "root", "Root admin username")
		force    = flag.Bool("force", false, "Overwrite an existing database file")
	)
	flag.Parse()

	if _, err := os.Stat(*out); err == nil {
		if !*force {
			log.Fatalf("%s already exists, pass -force to overwrite", *out)
		}
		if err := os.Remove(*out); err != nil {
			log.Fatalf("remove %s: %v", *out, err)
		}
	}

	password, err := randomPassword()
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	db := starterDatabase()
	db.Users = []adminuser.User{{
		ID:           adminuser.RootUserID,
		Username:     *username,
		PasswordHash: string(hash),
		Role:         adminuser.RoleAdmin,
	}}

	store := storage.NewFile(*out)
	if err := store.WriteAll(context.Background(), db); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	fmt.Printf("Seeded %s\n", *out)
	fmt.Printf("Root admin: %s\n", *username)
	fmt.Printf("Password:   %s\n", password)
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func starterDatabase() storage.Database {
	return storage.Database{
		Settings: settings.Default(),
		Categories: []category.Category{
			{Name: "Core Systems"},
			{Name: "User Interface"},
			{Name: "Data Management"},
		},
		Modules: []docmodule.Module{
			{
				ID:          "auth-core",
				Name:        "Authentication Core",
				Category:    "Core Systems",
				Tags:        []string{"security", "user", "login"},
				Description: "Handles user authentication, session management, and security protocols.",
				Content: `<h3>Overview</h3>
<p>The Authentication Core module is the central hub for all user-related security operations. It provides robust and secure methods for user sign-up, login, and session handling.</p>
<h4>Key Features</h4>
<ul>
<li>Secure password hashing using bcrypt.</li>
<li>JWT-based session management.</li>
<li>Role-based access control (RBAC).</li>
<li>OAuth 2.0 integration for third-party logins.</li>
</ul>`,
				IsWelcome: true,
				Versions: []docmodule.Version{
					{
						Version: "1.2.0",
						Date:    "2024-07-15",
						Changes: []docmodule.Change{
							{Type: docmodule.ChangeNew, Description: "Added support for two-factor authentication (2FA)."},
							{Type: docmodule.ChangeImprovement, Description: "Optimized session validation logic."},
						},
					},
					{
						Version: "1.1.3",
						Date:    "2024-06-20",
						Changes: []docmodule.Change{
							{Type: docmodule.ChangeFix, Description: "Patched a minor vulnerability in password reset flow."},
						},
					},
				},
			},
			{
				ID:          "ui-kit",
				Name:        "UI Component Kit",
				Category:    "User Interface",
				Tags:        []string{"frontend", "design", "components"},
				Description: "A comprehensive library of reusable interface components.",
				Content: `<h3>Component Library</h3>
<p>The UI Component Kit is a collection of pre-built, customizable, and accessible components designed to accelerate front-end development.</p>
<h4>Available Components</h4>
<ul>
<li>Buttons and Inputs</li>
<li>Modals and Dialogs</li>
<li>Data Tables with sorting and filtering</li>
<li>Responsive Navigation Bars</li>
</ul>`,
				Versions: []docmodule.Version{
					{
						Version: "2.0.0",
						Date:    "2024-07-01",
						Changes: []docmodule.Change{
							{Type: docmodule.ChangeNew, Description: "Released new Data Grid component with virtualization."},
							{Type: docmodule.ChangeImprovement, Description: "Improved accessibility for all form components."},
						},
					},
					{
						Version: "1.5.2",
						Date:    "2024-05-10",
						Changes: []docmodule.Change{
							{Type: docmodule.ChangeFix, Description: "Fixed a z-index issue with the Modal."},
						},
					},
				},
			},
			{
				ID:          "db-connector",
				Name:        "Database Connector",
				Category:    "Data Management",
				Tags:        []string{"database", "sql", "orm"},
				Description: "A powerful ORM for seamless database interactions.",
				Content: `<h3>ORM Abstraction</h3>
<p>The Database Connector provides a type-safe and intuitive API for interacting with your SQL database.</p>
<h4>Supported Databases</h4>
<ul>
<li>PostgreSQL</li>
<li>MySQL</li>
<li>SQLite</li>
</ul>`,
				Versions: []docmodule.Version{
					{
						Version: "3.1.0",
						Date:    "2024-07-20",
						Changes: []docmodule.Change{
							{Type: docmodule.ChangeNew, Description: "Added experimental support for NoSQL databases."},
							{Type: docmodule.ChangeImprovement, Description: "Query performance improved by 15% through caching."},
							{Type: docmodule.ChangeFix, Description: "Correctly handle timezone conversions."},
						},
					},
				},
			},
		},
	}
}
