package main

import "github.com/matthieukhl/naturemagic/internal/cmd"

func main() {
	cmd.Execute()
}
