package main

import (
	"log"
	"os"
)

func fail() {
	os.Exit(2)
}

func main() {
	defer func() {
		os.Exit(0)
	}()

	if len(os.Args) > 3 {
		fail()
	}
	if len(os.Args) > 2 {
		log.Fatalf("too many arguments: %d", len(os.Args)) // want `avoid using log.Fatalf in main.main`
	}
	if len(os.Args) > 1 {
		os.Exit(1) // want `avoid using os.Exit in main.main`
	}
	log.Println("done")
}
