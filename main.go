package main

import "github.com/openclaw/clawmon/cmd"

func main() {
	cmd.Execute()
}
