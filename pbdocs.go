package main

import "github.com/tesh254/pbdocs/cmd"

func main() {
	cmd.Execute()
}
