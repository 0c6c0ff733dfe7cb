// The signup binary serves the user registration page. Registered users are kept
// by the users backend reached at BACKEND_URL (flag -b).
package main

import (
	"github.com/patric-chuzhbe/usersignup/internal/app"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
)

func main() {
	application, err := app.NewSignup()
	if err != nil {
		panic(err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		logger.Log.Errorw("signup server stopped", "error", err)
	}
}
