package main

import (
	"github.com/oyunca/wordmatch-go/internal/cli"
)

func main() {
	cli.Execute()
}
