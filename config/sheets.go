package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	sheetsSvc     *sheets.Service
	spreadsheetId string
)

func GetSheetsService() *sheets.Service {
	return sheetsSvc
}

func GetSpreadsheetId() string {
	return spreadsheetId
}

func init() {
	// Load env from .env
	godotenv.Load()
	// Do NOT block startup in init() waiting for the Sheets API.
}

// ConnectSheetsWithRetry builds the Sheets API client and resolves the
// spreadsheet id. Call this from main() AFTER the HTTP server is listening.
//
// Env:
// - SPREADSHEET_ID (required)
// - GOOGLE_APPLICATION_CREDENTIALS (optional; ADC is used when unset)
func ConnectSheetsWithRetry() {
	spreadsheetId = strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	if spreadsheetId == "" {
		log.Printf("SPREADSHEET_ID not set; sheet-backed store will be unavailable")
		return
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	var attempt int
	for {
		attempt++
		svc, err := sheets.NewService(context.Background(), opts...)
		if err == nil {
			sheetsSvc = svc
			log.Printf("connected to sheets api (attempt=%d spreadsheet=%s)", attempt, spreadsheetId)
			return
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to build sheets client (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}
