package main

import (
	"os"

	"github.com/schmitthub/relpub/internal/relpub"
)

func main() {
	os.Exit(relpub.Main())
}
