package models

import (
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

const (
	ColSvcCenterName  = "Center_Name"
	ColSvcServiceName = "Service_Name"
	ColSvcPhoneNumber = "Phone_Number"
)

func serviceContactColumns() []string {
	return []string{ColSvcCenterName, ColSvcServiceName, ColSvcPhoneNumber}
}

type ServiceContact struct {
	CenterName  string
	ServiceName string
	PhoneNumber string
}

// defaultServiceContacts is the built-in contact table. Entries in the
// Service_Contacts worksheet override these per center; the latest row for a
// (center, service) pair wins by append order.
var defaultServiceContacts = []ServiceContact{
	{ServiceName: "Electrician", PhoneNumber: "+911800111222"},
	{ServiceName: "Plumber", PhoneNumber: "+911800111333"},
	{ServiceName: "IT_Support", PhoneNumber: "+911800111444"},
	{ServiceName: "Equipment_AMC", PhoneNumber: "+911800111555"},
}

func ServiceContactFromRecord(rec sheetstore.Record) ServiceContact {
	var c ServiceContact
	c.CenterName, _ = rec.Get(ColSvcCenterName)
	c.ServiceName, _ = rec.Get(ColSvcServiceName)
	c.PhoneNumber, _ = rec.Get(ColSvcPhoneNumber)
	return c
}

func (c ServiceContact) Row() []interface{} {
	return []interface{}{c.CenterName, c.ServiceName, c.PhoneNumber}
}

// ResolveServiceContacts returns the effective contact list for a center:
// built-in defaults overlaid with the center's sheet overrides. Phone
// numbers are normalized to E.164 when they parse.
func ResolveServiceContacts(recs []sheetstore.Record, centerName string) []ServiceContact {
	effective := make(map[string]ServiceContact, len(defaultServiceContacts))
	order := make([]string, 0, len(defaultServiceContacts))
	for _, d := range defaultServiceContacts {
		d.CenterName = centerName
		effective[d.ServiceName] = d
		order = append(order, d.ServiceName)
	}

	for _, rec := range recs {
		c := ServiceContactFromRecord(rec)
		if c.CenterName != centerName || c.ServiceName == "" {
			continue
		}
		if _, ok := effective[c.ServiceName]; !ok {
			order = append(order, c.ServiceName)
		}
		effective[c.ServiceName] = c
	}

	out := make([]ServiceContact, 0, len(order))
	for _, name := range order {
		c := effective[name]
		c.PhoneNumber = utils.FormatPhoneNumber(c.PhoneNumber, utils.CountryCode)
		out = append(out, c)
	}
	return out
}
