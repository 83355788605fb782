package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"mindhaven/config"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	my := DSN(config.DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Database: "mh", Charset: "utf8mb4"})
	if my != "u:p@tcp(db:3306)/mh?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Errorf("mysql DSN = %q", my)
	}
	pg := DSN(config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "mh", SSLMode: "disable"})
	if !strings.Contains(pg, "host=db") || !strings.Contains(pg, "sslmode=disable") {
		t.Errorf("postgres DSN = %q", pg)
	}
}

func TestDialectorUnknownDriver(t *testing.T) {
	if _, err := Dialector(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if d, err := Dialector(config.DatabaseConfig{}); err != nil || d.Name() != "mysql" {
		t.Errorf("default dialector = %v, %v; want mysql", d, err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysqlDriver.MySQLError{Number: 1452}, false},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKey(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
