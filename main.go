package main

import (
	"log"

	"github.com/theworldofraheem/InternScope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
