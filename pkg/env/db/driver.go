package db

import (
	"fmt"
	"net/url"
)

const (
	driverMySQL      = "mysql"
	driverPostgreSQL = "pgx"
)

type driver struct {
	name string
	port int
	dsn  func(user, pass, host string, port int, name string) string
}

var drivers = map[string]driver{
	"mysql": {
		name: driverMySQL,
		port: 3306,
		dsn: func(user, pass, host string, port int, name string) string {
			return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", user, pass, host, port, name)
		},
	},
	"pgx": {
		name: driverPostgreSQL,
		port: 5432,
		dsn: func(user, pass, host string, port int, name string) string {
			return fmt.Sprintf("postgres://%s@%s:%d/%s", url.UserPassword(user, pass), host, port, name)
		},
	},
}

var aliases = map[string]string{
	"mysql":      "mysql",
	"pgx":        "pgx",
	"postgres":   "pgx",
	"postgresql": "pgx",
}

// DriverType is the database/sql driver named in DB_DRIVER, aliases included.
type DriverType string

func (t DriverType) lookup() (driver, bool) {
	d, ok := drivers[aliases[string(t)]]
	return d, ok
}

func (t DriverType) String() string {
	return t.Name()
}

// Name returns the name the driver is registered under with database/sql.
func (t DriverType) Name() string {
	d, _ := t.lookup()
	return d.name
}

func (t DriverType) Port() int {
	d, _ := t.lookup()
	return d.port
}

func (t DriverType) IsValid() bool {
	_, ok := t.lookup()
	return ok
}

func (t DriverType) DSN(user, pass, host string, port int, name string) string {
	d, ok := t.lookup()
	if !ok {
		return ""
	}
	return d.dsn(user, pass, host, port, name)
}
