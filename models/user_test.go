package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRecord(username, password, center, role string) sheetstore.Record {
	return sheetstore.Record{
		ColUserUsername:   username,
		ColUserPassword:   password,
		ColUserCenterName: center,
		ColUserRole:       role,
	}
}

func TestFindUserPlaintextMatch(t *testing.T) {
	records := []sheetstore.Record{
		userRecord("mgr1", "s3cret", "Smile Dental", RoleContributor),
		userRecord("boss", "topsecret", "HQ", RoleSupervisor),
	}

	u, err := FindUser(records, "mgr1", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Smile Dental", u.CenterName)
	assert.Equal(t, RoleContributor, u.Role)

	u, err = FindUser(records, "boss", "topsecret")
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, u.Role)
}

func TestFindUserTrimsCredentials(t *testing.T) {
	records := []sheetstore.Record{
		userRecord(" mgr1 ", "s3cret", "Smile Dental", ""),
	}

	// Sheet cells and supplied credentials both arrive with stray whitespace.
	u, err := FindUser(records, "  mgr1  ", " s3cret ")
	require.NoError(t, err)
	assert.Equal(t, "mgr1", u.Username)
}

func TestFindUserBcryptMatch(t *testing.T) {
	hashed, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	records := []sheetstore.Record{
		userRecord("mgr1", hashed, "Smile Dental", RoleContributor),
	}

	_, err = FindUser(records, "mgr1", "s3cret")
	assert.NoError(t, err)

	_, err = FindUser(records, "mgr1", "wrong")
	assert.ErrorIs(t, err, utils.ErrorInvalidCredentials)
}

func TestFindUserRejectsUnknownOrEmpty(t *testing.T) {
	records := []sheetstore.Record{
		userRecord("mgr1", "s3cret", "Smile Dental", RoleContributor),
	}

	_, err := FindUser(records, "nobody", "s3cret")
	assert.ErrorIs(t, err, utils.ErrorInvalidCredentials)

	_, err = FindUser(records, "mgr1", "")
	assert.ErrorIs(t, err, utils.ErrorInvalidCredentials)

	_, err = FindUser(nil, "mgr1", "s3cret")
	assert.ErrorIs(t, err, utils.ErrorInvalidCredentials)
}

func TestFindUserDefaultsRoleToContributor(t *testing.T) {
	// Pre-role rows lack the column entirely.
	records := []sheetstore.Record{
		{ColUserUsername: "old", ColUserPassword: "pw", ColUserCenterName: "Smile Dental"},
		userRecord("typo", "pw", "Smile Dental", "Admin"),
	}

	u, err := FindUser(records, "old", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleContributor, u.Role)

	u, err = FindUser(records, "typo", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleContributor, u.Role, "unrecognized roles fall back to the least privilege")
}
