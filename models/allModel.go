package models

import "bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"

// Worksheet names inside the Clinic_Daily_Ops_DB spreadsheet.
const (
	TableUsers           = "Users"
	TableDailyLogs       = "Daily_Logs"
	TableIncidents       = "Incidents"
	TableServiceLogs     = "Service_Logs"
	TableReminders       = "Reminders"
	TableHolidays        = "Holidays"
	TableServiceContacts = "Service_Contacts"
)

// AllTables lists every worksheet with its header columns in write order.
// Column order is a wire contract: rows are appended positionally, so new
// fields only ever land at the tail.
func AllTables() []sheetstore.TableSpec {
	return []sheetstore.TableSpec{
		{Name: TableUsers, Columns: []string{ColUserUsername, ColUserPassword, ColUserCenterName, ColUserRole}},
		{Name: TableDailyLogs, Columns: dailyLogColumns()},
		{Name: TableIncidents, Columns: incidentColumns()},
		{Name: TableServiceLogs, Columns: serviceLogColumns()},
		{Name: TableReminders, Columns: reminderColumns()},
		{Name: TableHolidays, Columns: holidayColumns()},
		{Name: TableServiceContacts, Columns: serviceContactColumns()},
	}
}
