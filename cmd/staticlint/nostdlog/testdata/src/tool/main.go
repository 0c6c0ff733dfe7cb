package main

import (
	"fmt"
	"log"
)

func main() {
	log.Println("starting")
	fmt.Println("done")
}
