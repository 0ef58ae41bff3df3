package database

import (
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"
)

func TestMongoDatabaseName(t *testing.T) {
	tests := map[string]string{
		"mongodb://localhost:27017/fitify":                        "fitify",
		"mongodb+srv://u:p@cluster0.mongodb.net/coach?retryWrites": "coach",
		"mongodb://localhost:27017":                               "fitify",
		"mongodb://localhost:27017/?tls=true":                     "fitify",
	}
	for uri, want := range tests {
		if got := mongoDatabaseName(uri); got != want {
			t.Errorf("mongoDatabaseName(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestRedisOptions(t *testing.T) {
	opt, err := redisOptions("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.DB != 2 || opt.Password != "secret" {
		t.Errorf("parsed = %s db=%d", opt.Addr, opt.DB)
	}
	if opt.PoolSize != 10 || opt.ReadTimeout != 3*time.Second {
		t.Errorf("pool settings not applied: size=%d read=%s", opt.PoolSize, opt.ReadTimeout)
	}

	if _, err := redisOptions("not a url"); err == nil {
		t.Error("expected error for invalid URI")
	}
}

func TestSchemaHasWeightLogUniqueness(t *testing.T) {
	for _, q := range schema {
		if strings.Contains(q, "CREATE TABLE IF NOT EXISTS weight_logs") {
			if !strings.Contains(q, "UNIQUE(user_id, log_date)") {
				t.Fatal("weight_logs must be unique per user and date")
			}
			return
		}
	}
	t.Fatal("weight_logs table missing from schema")
}

// Runs against a real database only when FITIFY_INTEGRATION=1 and POSTGRES_URI are set.
func TestInitPostgresTablesIntegration(t *testing.T) {
	uri := os.Getenv("POSTGRES_URI")
	if os.Getenv("FITIFY_INTEGRATION") != "1" || uri == "" {
		t.Skip("set FITIFY_INTEGRATION=1 and POSTGRES_URI to run")
	}

	db, err := sql.Open("postgres", uri)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	// Idempotent: running twice must not fail
	for i := 0; i < 2; i++ {
		if err := InitPostgresTables(db); err != nil {
			t.Fatalf("init #%d: %v", i+1, err)
		}
	}
}
