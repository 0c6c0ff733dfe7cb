package lib

import (
	"fmt"
	"log"
	"os"
)

func Save(name string) error {
	log.Printf("saving %s", name) // want `log.Printf: use internal/logger instead of the standard log package`
	fmt.Println("saving", name)   // want `fmt.Println: use internal/logger instead of printing to stdout`

	fmt.Fprintln(os.Stderr, "saving", name)

	return fmt.Errorf("cannot save %s", name)
}
