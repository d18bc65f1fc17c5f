package main

import "github.com/frahmantamala/dues-management/cmd"

func main() {
	cmd.Execute()
}
