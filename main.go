// @title Syntax Feed API
// @version 1.0
// @description Short-form coding lessons with interleaved quizzes, courses, notes and practice.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "syntax_feed_backend/internal/cli"

func main() {
	cli.Execute()
}
