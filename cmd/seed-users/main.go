// seed-users appends a user row to the Users worksheet with a bcrypt-hashed
// password. Plaintext rows keep working; this tool is how new accounts and
// password rotations land.
//
// Usage:
//   SPREADSHEET_ID=... go run ./cmd/seed-users -username mgr1 -password s3cret -center "Smile Dental" -role Contributor
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

func main() {
	username := flag.String("username", "", "login username")
	password := flag.String("password", "", "plaintext password (stored hashed)")
	center := flag.String("center", "", "center name the user reports for")
	role := flag.String("role", models.RoleContributor, "Contributor or Supervisor")
	flag.Parse()

	if *username == "" || *password == "" || *center == "" {
		fmt.Fprintln(os.Stderr, "-username, -password and -center are required")
		os.Exit(2)
	}
	if *role != models.RoleContributor && *role != models.RoleSupervisor {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}

	config.ConnectSheetsWithRetry()
	svc := config.GetSheetsService()
	if svc == nil {
		fmt.Fprintln(os.Stderr, "sheets client not initialized. Set SPREADSHEET_ID.")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store := sheetstore.NewSheetStore(svc, config.GetSpreadsheetId())
	exec := sheetstore.NewExecutor(config.GetLogger())

	err = exec.Do(ctx, "GetOrCreate Users", func() error {
		return store.GetOrCreate(ctx, sheetstore.TableSpec{
			Name:    models.TableUsers,
			Columns: []string{models.ColUserUsername, models.ColUserPassword, models.ColUserCenterName, models.ColUserRole},
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to provision Users worksheet: %v\n", err)
		os.Exit(1)
	}

	row := models.UserRow(*username, hashed, *center, *role)
	err = exec.Do(ctx, "AppendRow Users", func() error {
		return store.AppendRow(ctx, models.TableUsers, row)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to append user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user %q added for center %q (%s)\n", *username, *center, *role)
}
