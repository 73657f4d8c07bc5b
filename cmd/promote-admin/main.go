// Command promote-admin changes a user's platform role out of band. There is
// no API for granting super admin, so the first admin is created here.
//
//	promote-admin -user octocat -role super_admin
//	promote-admin -user octocat -role user -event-manager
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store/backend"
)

func main() {
	login := flag.String("user", "", "GitHub login of the user to update")
	role := flag.String("role", models.GlobalRoleSuperAdmin, "global role: super_admin or user")
	eventManager := flag.Bool("event-manager", false, "allow the user to publish events")
	flag.Parse()

	if *login == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != models.GlobalRoleSuperAdmin && *role != models.GlobalRoleUser {
		log.Fatalf("Unknown role %q", *role)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := backend.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close(ctx)

	before, err := st.FindUserByExternalID(ctx, *login)
	if err != nil {
		log.Fatalf("User %q not found (they must log in once first): %v", *login, err)
	}

	after, err := st.UpdateUserRole(ctx, *login, *role, *eventManager)
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("%-20s %-15s %-15s\n", "User", "Role", "EventManager")
	fmt.Printf("%-20s %-15s %-15t (before)\n", before.ExternalID, before.GlobalRole, before.IsEventManager)
	fmt.Printf("%-20s %-15s %-15t (after)\n", after.ExternalID, after.GlobalRole, after.IsEventManager)
}
