package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveServiceContactsDefaults(t *testing.T) {
	contacts := ResolveServiceContacts(nil, "Smile Dental")
	require.Len(t, contacts, len(defaultServiceContacts))

	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		assert.Equal(t, "Smile Dental", c.CenterName)
		assert.NotEmpty(t, c.PhoneNumber)
		names = append(names, c.ServiceName)
	}
	assert.Equal(t, []string{"Electrician", "Plumber", "IT_Support", "Equipment_AMC"}, names)
}

func TestResolveServiceContactsCenterOverride(t *testing.T) {
	recs := []sheetstore.Record{
		{ColSvcCenterName: "Smile Dental", ColSvcServiceName: "Plumber", ColSvcPhoneNumber: "+919876543210"},
		// Overrides for other centers never leak in.
		{ColSvcCenterName: "City Clinic", ColSvcServiceName: "Plumber", ColSvcPhoneNumber: "+911111111111"},
	}

	contacts := ResolveServiceContacts(recs, "Smile Dental")
	byName := make(map[string]ServiceContact)
	for _, c := range contacts {
		byName[c.ServiceName] = c
	}

	assert.Equal(t, "+919876543210", byName["Plumber"].PhoneNumber)
	assert.Equal(t, "+911800111222", byName["Electrician"].PhoneNumber)
}

func TestResolveServiceContactsExtraServiceAppended(t *testing.T) {
	recs := []sheetstore.Record{
		{ColSvcCenterName: "Smile Dental", ColSvcServiceName: "Pest_Control", ColSvcPhoneNumber: "+919876543210"},
	}

	contacts := ResolveServiceContacts(recs, "Smile Dental")
	require.Len(t, contacts, len(defaultServiceContacts)+1)
	assert.Equal(t, "Pest_Control", contacts[len(contacts)-1].ServiceName)
}

func TestResolveServiceContactsKeepsUnparseablePhoneRaw(t *testing.T) {
	recs := []sheetstore.Record{
		{ColSvcCenterName: "Smile Dental", ColSvcServiceName: "Plumber", ColSvcPhoneNumber: "ask reception"},
	}

	contacts := ResolveServiceContacts(recs, "Smile Dental")
	byName := make(map[string]ServiceContact)
	for _, c := range contacts {
		byName[c.ServiceName] = c
	}
	assert.Equal(t, "ask reception", byName["Plumber"].PhoneNumber)
}
