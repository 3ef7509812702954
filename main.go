package main

import (
	"github.com/byxorna/shipwright/cmd"
)

func main() {
	cmd.Execute()
}
