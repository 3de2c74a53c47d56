package main

import (
	cmd "github.com/fluakademi/coursebot/cmd/coursebot"
	"github.com/fluakademi/coursebot/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting coursebot")
	cmd.Execute()
}
