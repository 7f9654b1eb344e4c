package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/TheBitDrifter/stockroom"
	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

type Health int32

type Name string

var log = logrus.New()

type settings struct {
	entities int
	profile  string
}

// loadSettings reads the environment, optionally seeded from a .env file.
func loadSettings() (settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file, using environment and defaults")
	}

	log.SetOutput(os.Stdout)
	if os.Getenv("STOCKROOM_LOG_FORMAT") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if raw := os.Getenv("STOCKROOM_LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return settings{}, fmt.Errorf("STOCKROOM_LOG_LEVEL: %w", err)
		}
		log.SetLevel(level)
	}

	s := settings{entities: 1000, profile: os.Getenv("STOCKROOM_PROFILE")}
	if raw := os.Getenv("STOCKROOM_ENTITIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return settings{}, fmt.Errorf("STOCKROOM_ENTITIES must be a non-negative integer, got %q", raw)
		}
		s.entities = n
	}
	return s, nil
}

func main() {
	os.Exit(demo())
}

// demo returns the process exit code so deferred profiling still stops on
// failure.
func demo() int {
	s, err := loadSettings()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 2
	}

	switch s.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	}

	stockroom.Config.SetLogger(log)

	if err := run(s); err != nil {
		log.WithError(err).Error("demo failed")
		return 1
	}
	return 0
}

func run(s settings) error {
	world := stockroom.Factory.NewWorld()

	heroes := []struct {
		name   Name
		health *Health
	}{
		{"Icarus", ptr(Health(-10))},
		{"Prometheus", ptr(Health(100))},
		{"Zeus", nil},
		{"Perseus", ptr(Health(0))},
	}
	for _, hero := range heroes {
		e := world.NewEntity()
		if err := stockroom.AddComponent(world, e, hero.name); err != nil {
			return err
		}
		if hero.health == nil {
			continue
		}
		if err := stockroom.AddComponent(world, e, *hero.health); err != nil {
			return err
		}
	}

	for i, e := range world.NewEntities(s.entities) {
		if err := stockroom.AddComponent(world, e, Health(i%200-50)); err != nil {
			return err
		}
		if i%3 == 0 {
			if err := stockroom.AddComponent(world, e, Name(fmt.Sprintf("mortal-%d", i))); err != nil {
				return err
			}
		}
	}
	log.WithField("entities", world.EntityCount()).Info("world populated")

	if err := report(world); err != nil {
		return err
	}

	healed := 0
	err := stockroom.Each2(world, func(_ stockroom.EntityID, health *Health, name *Name) {
		if *name == "Perseus" && *health <= 0 {
			*health = 100
			healed++
		}
	})
	if err != nil {
		return err
	}
	log.WithField("healed", healed).Info("Perseus restored")

	return report(world)
}

// report joins Health with Name and logs the named heroes.
func report(world stockroom.World) error {
	healths, found, err := stockroom.ViewColumn[Health](world)
	if !found || err != nil {
		return err
	}
	defer healths.Release()
	names, found, err := stockroom.ViewColumn[Name](world)
	if !found || err != nil {
		return err
	}
	defer names.Release()

	perished, healthy := 0, 0
	for row := range stockroom.Rows2[Health, Name](healths, names) {
		entry := log.WithFields(logrus.Fields{
			"entity": row.Entity,
			"name":   *row.B,
			"health": *row.A,
		})
		if *row.A <= 0 {
			perished++
			entry.Debug("has perished")
			continue
		}
		healthy++
		entry.Debug("is healthy")
	}
	log.WithFields(logrus.Fields{
		"perished": perished,
		"healthy":  healthy,
	}).Info("join complete")
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
