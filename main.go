package main

import (
	"github.com/va2bbw/qle/cmd"
)

func main() {
	cmd.Execute()
}
