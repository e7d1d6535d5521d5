package main

import "github.com/gaurav-prasanna/archivefeed/cmd"

func main() {
	cmd.Execute()
}
