package main

import "tipjar-core/cmd/tipjar-cli/cmd"

func main() {
	cmd.Execute()
}
