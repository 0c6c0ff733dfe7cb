// The usersvc binary is the reference users backend: a REST service over
// PostgreSQL (DATABASE_DSN), a JSON file (FILE_STORAGE_PATH) or memory.
package main

import (
	"github.com/patric-chuzhbe/usersignup/internal/app"
	"github.com/patric-chuzhbe/usersignup/internal/config"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
)

const defaultRunAddr = ":5000"

func main() {
	application, err := app.NewUsersBackend(config.WithDefaultRunAddr(defaultRunAddr))
	if err != nil {
		panic(err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		logger.Log.Errorw("users backend stopped", "error", err)
	}
}
