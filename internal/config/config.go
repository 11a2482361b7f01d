package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "EVENTNEXUS_"

type Application struct {
	Host     string   `koanf:"host"`
	Timezone string   `koanf:"timezone"`
	Server   Server   `koanf:"server"`
	Frontend Frontend `koanf:"frontend"`
	Metrics  Metrics  `koanf:"metrics"`
	Database Database `koanf:"db"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Defaults returns the configuration used when neither the file nor the
// environment override a value.
func Defaults() Application {
	return Application{
		Host:     "http://localhost:8181",
		Timezone: "Local",
		Server: Server{
			Addr: ":8181",
		},
		Frontend: Frontend{
			Enabled: true,
		},
		Metrics: Metrics{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "eventnexus",
			Pass:   "",
			Name:   "eventnexus",
			Schema: "eventnexus",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// EVENTNEXUS_DB_HOST -> db.host
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if _, err := app.Location(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured timezone. It defines what "today" means
// for time-window filtering and form validation.
func (a Application) Location() (*time.Location, error) {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}
