package main

import "github.com/frahmantamala/access-request/cmd"

func main() {
	cmd.Execute()
}
