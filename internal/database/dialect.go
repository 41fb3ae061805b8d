package database

import (
	"fmt"
	"strings"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect struct {
	// Name is the storage driver name (mysql, postgres or sqlite).
	Name string
	// DriverName is the database/sql driver registered for the dialect.
	DriverName string
}

// DialectFor returns the dialect for a storage driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case constants.DriverMySQL:
		return Dialect{Name: driver, DriverName: "mysql"}, nil
	case constants.DriverPostgres:
		return Dialect{Name: driver, DriverName: "postgres"}, nil
	case constants.DriverSQLite:
		return Dialect{Name: driver, DriverName: "sqlite"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported SQL driver: %s", driver)
	}
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.Name == constants.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Placeholders returns count comma-separated bind parameters starting at 1.
func (d Dialect) Placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// Upsert builds an insert that replaces the non-key columns when the key already exists.
func (d Dialect) Upsert(table, keyColumn string, columns []string) string {
	all := append([]string{keyColumn}, columns...)
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(all, ", "), d.Placeholders(len(all)))

	sets := make([]string, len(columns))
	for i, col := range columns {
		if d.Name == constants.DriverMySQL {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
		} else {
			sets[i] = fmt.Sprintf("%s = excluded.%s", col, col)
		}
	}

	if d.Name == constants.DriverMySQL {
		return insert + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s", insert, keyColumn, strings.Join(sets, ", "))
}

// TextType is the column type for unbounded JSON documents.
func (d Dialect) TextType() string {
	if d.Name == constants.DriverMySQL {
		return "LONGTEXT"
	}
	return "TEXT"
}

// KeyType is the column type for short primary-key strings.
func (d Dialect) KeyType() string {
	return "VARCHAR(64)"
}

// TimestampType is the column type for UTC timestamps.
func (d Dialect) TimestampType() string {
	switch d.Name {
	case constants.DriverPostgres:
		return "TIMESTAMPTZ"
	case constants.DriverMySQL:
		return "DATETIME(3)"
	default:
		return "TIMESTAMP"
	}
}
