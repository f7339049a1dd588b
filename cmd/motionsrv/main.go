package main

import "github.com/XC-/motion/internal/cmd"

func main() {
	cmd.Execute()
}
