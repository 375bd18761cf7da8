package config

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/entrhq/pwsession/pkg/session"
)

// LoadEnvironment snapshots the process environment and fills in keys from the
// given .env files. As with godotenv.Load, a key that is already set wins, so
// the process environment beats every file and earlier files beat later ones.
// The process environment itself is never modified.
func LoadEnvironment(files ...string) (session.Environment, error) {
	env := session.EnvironmentFromOS()
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range values {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}
	return env, nil
}
