package main

import "github.com/petrarca/techstack-lens/internal/cmd"

func main() {
	cmd.Execute()
}
