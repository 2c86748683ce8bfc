package database

import (
	"testing"

	"skedy/config"
)

func TestDatabaseName(t *testing.T) {
	prev := config.AppConfig.DatabaseName
	defer func() { config.AppConfig.DatabaseName = prev }()

	config.AppConfig.DatabaseName = ""
	if got := databaseName(); got != "skedy" {
		t.Fatalf("expected fallback name skedy, got %q", got)
	}
	config.AppConfig.DatabaseName = "skedy_staging"
	if got := databaseName(); got != "skedy_staging" {
		t.Fatalf("expected configured name, got %q", got)
	}
}
