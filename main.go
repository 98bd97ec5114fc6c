package main

import "github.com/Alijeyrad/eunoia_backend/cmd"

func main() {
	cmd.Execute()
}
