package main

import "github.com/deevseek/washcorner/cmd"

func main() {
	cmd.Execute()
}
