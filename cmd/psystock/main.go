package main

import "github.com/Hernannavarro13/psystock-go/cmd/psystock/cmd"

func main() {
	cmd.Execute()
}
