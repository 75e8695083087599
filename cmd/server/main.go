package main

import "projectpulse/internal/app"

// @title           ProjectPulse API
// @version         1.0
// @description     Project and task management with time tracking and timesheet reports.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	app.Run()
}
