package models

import (
	"strings"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

const (
	ColUserUsername   = "Username"
	ColUserPassword   = "Password"
	ColUserCenterName = "Center_Name"
	ColUserRole       = "Role"
)

const (
	RoleContributor = "Contributor"
	RoleSupervisor  = "Supervisor"
)

type User struct {
	Username   string
	CenterName string
	Role       string
}

// FindUser matches credentials against the Users worksheet. Matching is by
// exact trimmed equality; stored passwords starting with a bcrypt prefix are
// compared as hashes instead, so sheets can be migrated off plaintext a row
// at a time. A missing Role column means Contributor (pre-role revisions).
func FindUser(records []sheetstore.Record, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, utils.ErrorInvalidCredentials
	}

	for _, rec := range records {
		u, _ := rec.Get(ColUserUsername)
		if u != username {
			continue
		}
		stored, ok := rec.Get(ColUserPassword)
		if !ok {
			continue
		}
		if !passwordMatches(stored, password) {
			continue
		}

		center, _ := rec.Get(ColUserCenterName)
		role, ok := rec.Get(ColUserRole)
		if !ok || role == "" {
			role = RoleContributor
		}
		if role != RoleContributor && role != RoleSupervisor {
			role = RoleContributor
		}
		return &User{Username: u, CenterName: center, Role: role}, nil
	}
	return nil, utils.ErrorInvalidCredentials
}

func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return utils.ComparePassword(stored, supplied) == nil
	}
	return stored == supplied
}

// UserRow builds a positional Users row.
func UserRow(username, password, centerName, role string) []interface{} {
	return []interface{}{username, password, centerName, role}
}
