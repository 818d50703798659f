package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tagfilterdb/querydesk/pkg/env"
)

// Env is the database behind the reference compiler endpoint.
type Env struct {
	Driver     DriverType
	Host       string
	Port       int
	Username   string
	Password   string
	Name       string
	AllowWrite bool
}

func NewDBEnv() *Env {
	return &Env{}
}

func (d *Env) Populate() error {
	driver := DriverType(os.Getenv("DB_DRIVER"))
	if driver == "" {
		return &env.Error{Name: "DB_DRIVER"}
	}
	d.Driver = driver
	if !driver.IsValid() {
		return fmt.Errorf("unable to use driver type: %s", string(driver))
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return &env.Error{Name: "DB_HOST"}
	}
	d.Host = host

	d.Port = driver.Port()
	if s := os.Getenv("DB_PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return &env.TypeError{Name: "DB_PORT", Err: err}
		}
		d.Port = port
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		return &env.Error{Name: "DB_USER"}
	}
	d.Username = user

	pass := os.Getenv("DB_PASS")
	if pass == "" {
		return &env.Error{Name: "DB_PASS"}
	}
	d.Password = pass

	name := os.Getenv("DB_NAME")
	if name == "" {
		return &env.Error{Name: "DB_NAME"}
	}
	d.Name = name

	if s := os.Getenv("DB_WRITE"); s != "" {
		write, err := strconv.ParseBool(s)
		if err != nil {
			return &env.TypeError{Name: "DB_WRITE", Err: err}
		}
		d.AllowWrite = write
	}

	return nil
}

func (d *Env) ConnectionDSN() string {
	return d.Driver.DSN(d.Username, d.Password, d.Host, d.Port, d.Name)
}
