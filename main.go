package main

import (
	"log"

	"github.com/spigell/scholar-match/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
